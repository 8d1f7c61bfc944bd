package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"go.uber.org/zap"
)

// AuthAPI is the slice of the accounting client the session layer uses.
type AuthAPI interface {
	Authenticate(ctx context.Context, username, password string) (*accounting.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*accounting.TokenPair, error)
	ListCompanies(ctx context.Context) ([]accounting.Company, error)
}

// SessionManager persists the API token pair and keeps the client
// authenticated. One session row exists per deployment.
type SessionManager struct {
	db       *sql.DB
	api      AuthAPI
	username string
	password string
	logger   *zap.Logger
}

// NewSessionManager creates a new session manager
func NewSessionManager(db *sql.DB, api AuthAPI, username, password string, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		db:       db,
		api:      api,
		username: username,
		password: password,
		logger:   logger,
	}
}

// EnsureSession makes sure the client holds a usable access token:
// refresh when a stored session exists, full login otherwise.
func (m *SessionManager) EnsureSession(ctx context.Context) error {
	_, refreshToken, err := m.loadTokens(ctx)
	if err != nil {
		return err
	}

	if refreshToken != "" {
		tokens, err := m.api.RefreshToken(ctx, refreshToken)
		if err == nil {
			return m.saveTokens(ctx, tokens)
		}
		m.logger.Warn("Token refresh failed, falling back to login", zap.Error(err))
	}

	return m.Login(ctx, m.username, m.password)
}

// Login authenticates with user credentials and persists the session
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	tokens, err := m.api.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	m.logger.Info("Authenticated with accounting API")
	return m.saveTokens(ctx, tokens)
}

// Companies lists the companies available to the authenticated user
func (m *SessionManager) Companies(ctx context.Context) ([]accounting.Company, error) {
	return m.api.ListCompanies(ctx)
}

func (m *SessionManager) loadTokens(ctx context.Context) (access, refresh string, err error) {
	query := `SELECT access_token, refresh_token FROM api_sessions WHERE id = 1`

	err = m.db.QueryRowContext(ctx, query).Scan(&access, &refresh)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	return access, refresh, nil
}

func (m *SessionManager) saveTokens(ctx context.Context, tokens *accounting.TokenPair) error {
	query := `
		INSERT INTO api_sessions (id, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := m.db.ExecContext(ctx, query, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
