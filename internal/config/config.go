package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Booking BookingConfig
	Log     LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
type DBConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	User           string `envconfig:"DB_USER" default:"postgres"`
	Password       string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name           string `envconfig:"DB_NAME" default:"booking_db"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns       int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns       int    `envconfig:"DB_MIN_CONNS" default:"5"`
	ConnectRetries int    `envconfig:"DB_CONNECT_RETRIES" default:"5"`
	AutoMigrate    bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the PostgreSQL connection string.
// Pool sizing parameters are only appended when set.
func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, sslMode)
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf("&pool_max_conns=%d", c.MaxConns)
	}
	if c.MinConns > 0 {
		dsn += fmt.Sprintf("&pool_min_conns=%d", c.MinConns)
	}
	return dsn
}

// BookingConfig tunes the booking transaction.
type BookingConfig struct {
	ReferencePrefix   string          `envconfig:"BOOKING_REFERENCE_PREFIX" default:"HUF"`
	ReferenceAttempts int             `envconfig:"BOOKING_REFERENCE_ATTEMPTS" default:"3"`
	TxTimeout         time.Duration   `envconfig:"BOOKING_TX_TIMEOUT" default:"5s"`
	TxRetries         int             `envconfig:"BOOKING_TX_RETRIES" default:"3"`
	TaxRate           decimal.Decimal `envconfig:"BOOKING_TAX_RATE" default:"0.10"`
	MaxQuantity       int             `envconfig:"BOOKING_MAX_QUANTITY" default:"0"`
}

// Validate rejects settings the booking engine cannot run with.
func (c BookingConfig) Validate() error {
	if c.ReferencePrefix == "" {
		return errors.New("BOOKING_REFERENCE_PREFIX must not be empty")
	}
	if c.ReferenceAttempts < 1 {
		return errors.New("BOOKING_REFERENCE_ATTEMPTS must be at least 1")
	}
	if c.TxTimeout <= 0 {
		return errors.New("BOOKING_TX_TIMEOUT must be positive")
	}
	if c.TxRetries < 1 {
		return errors.New("BOOKING_TX_RETRIES must be at least 1")
	}
	if c.TaxRate.IsNegative() {
		return errors.New("BOOKING_TAX_RATE must not be negative")
	}
	if c.MaxQuantity < 0 {
		return errors.New("BOOKING_MAX_QUANTITY must not be negative")
	}
	return nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Booking.Validate(); err != nil {
		return nil, fmt.Errorf("invalid booking config: %w", err)
	}
	return &cfg, nil
}
