package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Payment   PaymentConfig   `yaml:"payment"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host             string `yaml:"host" env:"SERVER_HOST"`
	Port             int    `yaml:"port" env:"SERVER_PORT"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms" env:"SERVER_REQUEST_TIMEOUT_MS"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	URL           string `yaml:"url" env:"DATABASE_URL"` // Overrides the individual fields when set
	Host          string `yaml:"host" env:"DB_HOST"`
	Port          int    `yaml:"port" env:"DB_PORT"`
	User          string `yaml:"user" env:"DB_USER"`
	Password      string `yaml:"password" env:"DB_PASSWORD"`
	Database      string `yaml:"database" env:"DB_NAME"`
	SSLMode       string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxOpenConns  int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	LockTimeoutMs int    `yaml:"lock_timeout_ms" env:"DB_LOCK_TIMEOUT_MS"`
	AutoMigrate   bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes" env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// PaymentConfig selects and configures the payment gateway
type PaymentConfig struct {
	Gateway   string `yaml:"gateway" env:"PAYMENT_GATEWAY"` // "mock", "http" or "stripe"
	URL       string `yaml:"url" env:"PAYMENT_GATEWAY_URL"`
	APIKey    string `yaml:"api_key" env:"PAYMENT_GATEWAY_API_KEY"`
	TimeoutMs int    `yaml:"timeout_ms" env:"PAYMENT_GATEWAY_TIMEOUT_MS"`
	Method    string `yaml:"method" env:"PAYMENT_METHOD"`
	Currency  string `yaml:"currency" env:"PAYMENT_CURRENCY"`
}

// LifecycleConfig contains rental lifecycle settings
type LifecycleConfig struct {
	TxTimeoutMs            int `yaml:"tx_timeout_ms" env:"LIFECYCLE_TX_TIMEOUT_MS"`
	StalePendingGraceHours int `yaml:"stale_pending_grace_hours" env:"LIFECYCLE_STALE_PENDING_GRACE_HOURS"`
	JobBatchSize           int `yaml:"job_batch_size" env:"LIFECYCLE_JOB_BATCH_SIZE"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RetryPaymentCaptures string `yaml:"retry_payment_captures" env:"SCHEDULE_RETRY_PAYMENT_CAPTURES"`
	ExpireStalePending   string `yaml:"expire_stale_pending" env:"SCHEDULE_EXPIRE_STALE_PENDING"`
}

// Load reads configuration from a YAML file and applies environment overrides
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables win over the file
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate fills in defaults and checks if the configuration is valid
func (c *Config) Validate() error {
	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeoutMs == 0 {
		c.Server.RequestTimeoutMs = 10000
	}

	// Database
	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.LockTimeoutMs < 0 {
		return fmt.Errorf("invalid lock timeout: %d", c.Database.LockTimeoutMs)
	}

	// JWT
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Payment
	if c.Payment.Gateway == "" {
		c.Payment.Gateway = "mock"
	}
	switch c.Payment.Gateway {
	case "mock":
	case "http":
		if c.Payment.URL == "" {
			return fmt.Errorf("payment gateway url is required for the http gateway")
		}
	case "stripe":
		if c.Payment.APIKey == "" {
			return fmt.Errorf("payment api key is required for the stripe gateway")
		}
	default:
		return fmt.Errorf("unknown payment gateway: %q", c.Payment.Gateway)
	}
	if c.Payment.TimeoutMs == 0 {
		c.Payment.TimeoutMs = 5000
	}
	if c.Payment.Method == "" {
		c.Payment.Method = "card"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "usd"
	}

	// Lifecycle
	if c.Lifecycle.TxTimeoutMs == 0 {
		c.Lifecycle.TxTimeoutMs = 5000
	}
	if c.Lifecycle.StalePendingGraceHours == 0 {
		c.Lifecycle.StalePendingGraceHours = 24
	}
	if c.Lifecycle.JobBatchSize == 0 {
		c.Lifecycle.JobBatchSize = 100
	}

	// Scheduler defaults
	if c.Scheduler.RetryPaymentCaptures == "" {
		c.Scheduler.RetryPaymentCaptures = "0 */15 * * * *" // Every 15 minutes
	}
	if c.Scheduler.ExpireStalePending == "" {
		c.Scheduler.ExpireStalePending = "0 0 1 * * *" // 1 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func (c DatabaseConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

func (c PaymentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c LifecycleConfig) TxTimeout() time.Duration {
	return time.Duration(c.TxTimeoutMs) * time.Millisecond
}

func (c LifecycleConfig) StalePendingGrace() time.Duration {
	return time.Duration(c.StalePendingGraceHours) * time.Hour
}
