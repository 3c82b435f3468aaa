package config

import (
	"log/slog"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "shibahunt.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Port != 8123 {
		t.Errorf("expected default port 8123, got %d", cfg.Port)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("expected info level by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHIBAHUNT_DB_PATH", "/tmp/x.db")
	t.Setenv("SHIBAHUNT_LISTEN_PORT", "9001")
	t.Setenv("SHIBAHUNT_LOG_LEVEL", "debug")
	t.Setenv("SHIBAHUNT_SAMPLE_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.Port != 9001 || cfg.SampleSeed != 42 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level")
	}
}
