package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config holds every runtime setting, populated from environment variables.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"retailpos"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret string `envconfig:"JWT_SECRET" default:""`

	// RedisAddr empty disables the report cache entirely.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	DefaultCommissionRate string `envconfig:"DEFAULT_COMMISSION_RATE" default:"0.10"`
	DefaultSalesQuota     string `envconfig:"DEFAULT_SALES_QUOTA" default:"10000"`
	DefaultCurrency       string `envconfig:"DEFAULT_CURRENCY" default:"TL"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if _, err := decimal.NewFromString(cfg.DefaultCommissionRate); err != nil {
		return nil, fmt.Errorf("DEFAULT_COMMISSION_RATE is not a decimal: %w", err)
	}
	if _, err := decimal.NewFromString(cfg.DefaultSalesQuota); err != nil {
		return nil, fmt.Errorf("DEFAULT_SALES_QUOTA is not a decimal: %w", err)
	}
	return &cfg, nil
}

// DSN renders the postgres connection string.
func (c *Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CommissionRate returns the parsed default commission rate fraction.
func (c *Config) CommissionRate() decimal.Decimal {
	d, _ := decimal.NewFromString(c.DefaultCommissionRate)
	return d
}

// SalesQuota returns the parsed default sales quota.
func (c *Config) SalesQuota() decimal.Decimal {
	d, _ := decimal.NewFromString(c.DefaultSalesQuota)
	return d
}
