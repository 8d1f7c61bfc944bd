package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds accounting API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a JSON-over-HTTP client for the remote invoicing API.
// All write endpoints are called exactly once per run; retry policy, if
// any, belongs to a transport that can deduplicate on the request id.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a new accounting API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SetAccessToken sets the token attached to every subsequent call
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// call POSTs a JSON body to an API endpoint and decodes the response
// into out. Failed calls return an *APIError carrying the raw request
// and response bodies for operator diagnostics.
func (c *Client) call(ctx context.Context, endpoint string, body, out interface{}) error {
	sent, err := json.Marshal(body)
	if err != nil {
		return newAPIError(endpoint, 0, nil, nil, fmt.Errorf("encode request: %w", err))
	}

	reqURL := fmt.Sprintf("%s/v1/%s/", c.baseURL, endpoint)
	if token := c.token(); token != "" {
		reqURL += "?access_token=" + url.QueryEscape(token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(sent))
	if err != nil {
		return newAPIError(endpoint, 0, sent, nil, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if isWriteEndpoint(endpoint) {
		req.Header.Set("X-Idempotency-Key", requestID)
	}

	c.logger.Debug("Calling accounting API",
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newAPIError(endpoint, 0, sent, nil, err)
	}
	defer resp.Body.Close()

	received, err := io.ReadAll(resp.Body)
	if err != nil {
		return newAPIError(endpoint, resp.StatusCode, sent, nil, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return newAPIError(endpoint, resp.StatusCode, sent, received, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(endpoint, resp.StatusCode, sent, received,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(received, out); err != nil {
			return newAPIError(endpoint, resp.StatusCode, sent, received,
				fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}

// isWriteEndpoint reports whether the endpoint mutates remote state.
// Writes carry the request id as an idempotency key so a deduplicating
// transport can drop replays.
func isWriteEndpoint(endpoint string) bool {
	return strings.HasSuffix(endpoint, "/insert") || strings.HasSuffix(endpoint, "/update")
}

// Authenticate exchanges user credentials for a token pair
func (c *Client) Authenticate(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{
		"grant_type": "password",
		"username":   username,
		"password":   password,
	}

	var tokens TokenPair
	if err := c.call(ctx, "grant", body, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, newAPIError("grant", 0, nil, nil, fmt.Errorf("no access token in response"))
	}

	c.SetAccessToken(tokens.AccessToken)
	return &tokens, nil
}

// RefreshToken exchanges a refresh token for a fresh token pair
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}

	var tokens TokenPair
	if err := c.call(ctx, "grant", body, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, newAPIError("grant", 0, nil, nil, fmt.Errorf("no access token in response"))
	}

	c.SetAccessToken(tokens.AccessToken)
	return &tokens, nil
}

// InsertDocument creates a document of the given type and returns the
// new document id. A zero id means the response had no document_id.
func (c *Client) InsertDocument(ctx context.Context, docType string, payload *DocumentPayload) (int64, error) {
	var result struct {
		DocumentID int64 `json:"document_id"`
	}
	if err := c.call(ctx, docType+"/insert", payload, &result); err != nil {
		return 0, err
	}
	return result.DocumentID, nil
}

// GetDocument fetches one document by id. Returns (nil, nil) when the
// remote system has no document with that id.
func (c *Client) GetDocument(ctx context.Context, documentID int64) (*DocumentRecord, error) {
	body := map[string]int64{"document_id": documentID}

	var record DocumentRecord
	if err := c.call(ctx, "documents/getOne", body, &record); err != nil {
		return nil, err
	}
	if record.DocumentID == 0 {
		return nil, nil
	}
	return &record, nil
}

// UpdateDocument applies a patch to an existing document
func (c *Client) UpdateDocument(ctx context.Context, docType string, patch *DocumentPatch) error {
	return c.call(ctx, docType+"/update", patch, nil)
}

// GetPDFLink fetches the direct download link of a finalized document
func (c *Client) GetPDFLink(ctx context.Context, documentID int64) (string, error) {
	body := map[string]int64{"document_id": documentID}

	var result struct {
		URL string `json:"url"`
	}
	if err := c.call(ctx, "documents/getPDFLink", body, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// GetCompanyProfile fetches the profile of the selected company
func (c *Client) GetCompanyProfile(ctx context.Context) (*CompanyProfile, error) {
	var profile CompanyProfile
	if err := c.call(ctx, "companies/getOne", map[string]string{}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListCompanies lists the companies available to the authenticated user
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := c.call(ctx, "companies/getAll", map[string]string{}, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// ListTaxes lists the taxes registered on the selected company
func (c *Client) ListTaxes(ctx context.Context) ([]Tax, error) {
	var taxes []Tax
	if err := c.call(ctx, "taxes/getAll", map[string]string{}, &taxes); err != nil {
		return nil, err
	}
	return taxes, nil
}

// GetProductByReference looks up a product by its stable external
// reference. Returns (nil, nil) when no product matches.
func (c *Client) GetProductByReference(ctx context.Context, reference string) (*Product, error) {
	body := map[string]string{"reference": reference}

	var products []Product
	if err := c.call(ctx, "products/getByReference", body, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// InsertProduct creates a product and returns its id
func (c *Client) InsertProduct(ctx context.Context, product *Product) (int64, error) {
	var result struct {
		ProductID int64 `json:"product_id"`
	}
	if err := c.call(ctx, "products/insert", product, &result); err != nil {
		return 0, err
	}
	return result.ProductID, nil
}

// GetCustomerByVAT looks up a customer by VAT number. Returns (nil, nil)
// when no customer matches.
func (c *Client) GetCustomerByVAT(ctx context.Context, vat string) (*Customer, error) {
	body := map[string]string{"vat": vat}

	var customers []Customer
	if err := c.call(ctx, "customers/getByVat", body, &customers); err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

// GetCustomerByEmail looks up a customer by email. Returns (nil, nil)
// when no customer matches.
func (c *Client) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	body := map[string]string{"email": email}

	var customers []Customer
	if err := c.call(ctx, "customers/getByEmail", body, &customers); err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

// InsertCustomer creates a customer and returns its id
func (c *Client) InsertCustomer(ctx context.Context, customer *Customer) (int64, error) {
	var result struct {
		CustomerID int64 `json:"customer_id"`
	}
	if err := c.call(ctx, "customers/insert", customer, &result); err != nil {
		return 0, err
	}
	return result.CustomerID, nil
}
