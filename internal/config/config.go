package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration loaded from environment variables.
type Config struct {
	BridgeURL string `envconfig:"TRUSTKEYS_BRIDGE_URL"`
	DBPath    string `envconfig:"TRUSTKEYS_DB_PATH" default:"./data/trustkeys.sqlite"`
	Port      int    `envconfig:"TRUSTKEYS_PORT" default:"8091"`
	LogLevel  string `envconfig:"TRUSTKEYS_LOG_LEVEL" default:"info"`
	LogDir    string `envconfig:"TRUSTKEYS_LOG_DIR" default:"./logs"`

	// BridgeRPS caps outbound requests to the wallet bridge.
	// Most hosted bridges throttle hard above 10 rps.
	BridgeRPS int `envconfig:"TRUSTKEYS_BRIDGE_RPS" default:"10"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
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
	if c.BridgeRPS < 1 {
		return fmt.Errorf("%w: bridge rps must be positive, got %d", ErrInvalidConfig, c.BridgeRPS)
	}
	if c.BridgeURL != "" {
		if !strings.HasPrefix(c.BridgeURL, "ws://") && !strings.HasPrefix(c.BridgeURL, "wss://") &&
			!strings.HasPrefix(c.BridgeURL, "http://") && !strings.HasPrefix(c.BridgeURL, "https://") {
			return fmt.Errorf("%w: bridge url must be ws(s):// or http(s)://, got %q", ErrInvalidConfig, c.BridgeURL)
		}
	}
	return nil
}
