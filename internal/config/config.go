// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration.
type Config struct {
	// DBPath is the SQLite file holding the progress record.
	DBPath string `env:"SHIBAHUNT_DB_PATH" envDefault:"shibahunt.db"`
	// Port is the loopback port for the engine API.
	Port int `env:"SHIBAHUNT_LISTEN_PORT" envDefault:"8123"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SHIBAHUNT_LOG_LEVEL" envDefault:"info"`
	// SampleSeed, when non-zero, makes breed sampling deterministic. Useful
	// for demos and debugging; zero seeds from the clock.
	SampleSeed int64 `env:"SHIBAHUNT_SAMPLE_SEED" envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to
// info for unknown names.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
