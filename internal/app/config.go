package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Constants
const (
	// DatabaseFile is the SQLite file backing the events_prefs namespace.
	DatabaseFile = "events_prefs.db"

	// Error messages
	ErrInvalidFormat  = "Invalid format"
	ErrInternalServer = "Internal server error"
)

// Config holds the runtime configuration, sourced from the environment
// (and a .env file when present).
type Config struct {
	Listen   string `env:"LISTEN" envDefault:"127.0.0.1:8080"`
	DataDir  string `env:"DATA_DIR" envDefault:"."`
	AuthFile string `env:"AUTH_FILE"`
	Timezone string `env:"TIMEZONE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone. An empty value means the
// device's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
