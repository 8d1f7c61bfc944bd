package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api"`
	Invoicing InvoicingConfig `mapstructure:"invoicing"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// APIConfig holds remote accounting API configuration
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// InvoicingConfig holds document generation configuration
type InvoicingConfig struct {
	DocumentType    string `mapstructure:"document_type"`
	DocumentSetID   int64  `mapstructure:"document_set_id"`
	CloseDocument   bool   `mapstructure:"document_status"`
	SendEmail       bool   `mapstructure:"email_send"`
	ShippingInfo    bool   `mapstructure:"shipping_info"`
	ExemptionReason string `mapstructure:"exemption_reason"`
	CompanySlug     string `mapstructure:"company_slug"`
	EditorBaseURL   string `mapstructure:"editor_base_url"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/orders.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// API defaults
	viper.SetDefault("api.timeout", 30*time.Second)

	// Invoicing defaults
	viper.SetDefault("invoicing.document_type", "invoices")
	viper.SetDefault("invoicing.editor_base_url", "https://moloni.pt")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("api.base_url", "ACCOUNTING_API_URL")
	viper.BindEnv("api.username", "ACCOUNTING_API_USER")
	viper.BindEnv("api.password", "ACCOUNTING_API_PASSWORD")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Username == "" {
		return fmt.Errorf("api.username is required")
	}
	if c.API.Password == "" {
		return fmt.Errorf("api.password is required")
	}

	switch c.Invoicing.DocumentType {
	case "invoices", "invoice_receipts", "simplified_invoices", "transport_guides", "purchase_orders":
	case "":
		return fmt.Errorf("invoicing.document_type is required")
	default:
		return fmt.Errorf("unknown invoicing.document_type: %s", c.Invoicing.DocumentType)
	}

	return nil
}
