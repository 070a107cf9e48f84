package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Chaibook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		Driver  string `envconfig:"STORAGE_DRIVER" default:"file"`
		DataDir string `envconfig:"DATA_DIR" default:"data"`
	}

	SQLite struct {
		Path   string `envconfig:"SQLITE_PATH" default:"data/chaibook.db"`
		LogSQL bool   `envconfig:"SQLITE_LOG_SQL" default:"false"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"chaibook"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Auth struct {
		// AdminPassword seeds the admin account on first run only.
		AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
		TokenSecret   string        `envconfig:"AUTH_TOKEN_SECRET"`
		TokenTTL      time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
	}

	Billing struct {
		Currency       string `envconfig:"CURRENCY_SYMBOL" default:"Rs."`
		ExpiryWarnDays int    `envconfig:"SUBSCRIPTION_WARN_DAYS" default:"7"`
		InvoiceDueDays int    `envconfig:"INVOICE_DUE_DAYS" default:"7"`
		InvoiceDir     string `envconfig:"INVOICE_DIR" default:"invoices"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverFile, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Billing.ExpiryWarnDays < 0 {
		return nil, fmt.Errorf("SUBSCRIPTION_WARN_DAYS must not be negative")
	}

	return &cfg, nil
}
