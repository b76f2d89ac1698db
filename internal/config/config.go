package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the service's environment configuration.
type Config struct {
	Port     string `env:"FAMCOIN_PORT" envDefault:"8080"`
	DBPath   string `env:"FAMCOIN_DB_PATH" envDefault:"famcoin.db"`
	LogLevel string `env:"FAMCOIN_LOG_LEVEL" envDefault:"info"`
	// DraftTTL is how long an untouched wizard draft survives before the
	// cleanup loop removes it.
	DraftTTL time.Duration `env:"FAMCOIN_DRAFT_TTL" envDefault:"168h"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
