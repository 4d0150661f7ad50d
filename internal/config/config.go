package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	AlchemyAPIKey string `envconfig:"WALLETSCAN_ALCHEMY_API_KEY"`
	Port          int    `envconfig:"WALLETSCAN_PORT" default:"8080"`
	LogLevel      string `envconfig:"WALLETSCAN_LOG_LEVEL" default:"info"`
	LogDir        string `envconfig:"WALLETSCAN_LOG_DIR" default:"./logs"`

	InitialRetryDelay time.Duration `envconfig:"WALLETSCAN_INITIAL_RETRY_DELAY" default:"1s"`
	MaxRetryDelay     time.Duration `envconfig:"WALLETSCAN_MAX_RETRY_DELAY" default:"32s"`
	BackoffMultiplier float64       `envconfig:"WALLETSCAN_BACKOFF_MULTIPLIER" default:"2.0"`
	MaxRetries        int           `envconfig:"WALLETSCAN_MAX_RETRIES" default:"5"`
	RetryJitter       float64       `envconfig:"WALLETSCAN_RETRY_JITTER" default:"0.1"`

	RequestsPerSecond int `envconfig:"WALLETSCAN_RPS" default:"10"`
}

// Load reads configuration from .env file (if present) then from environment
// variables. Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars, so real environment
	// variables take precedence over .env values.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn("failed to load .env file", "error", err)
		} else {
			slog.Info("loaded .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must be >= 0, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.BackoffMultiplier < 1.0 {
		return fmt.Errorf("%w: backoff multiplier must be >= 1.0, got %g", ErrInvalidConfig, c.BackoffMultiplier)
	}
	if c.RetryJitter < 0 || c.RetryJitter >= 1.0 {
		return fmt.Errorf("%w: retry jitter must be in [0, 1), got %g", ErrInvalidConfig, c.RetryJitter)
	}
	if c.RequestsPerSecond < 1 {
		return fmt.Errorf("%w: requests per second must be >= 1, got %d", ErrInvalidConfig, c.RequestsPerSecond)
	}
	return nil
}
