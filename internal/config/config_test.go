package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/youome/internal/models"
)

var keys = []string{
	"PORT", "DB_DRIVER", "DATABASE_URL", "MERGE_STRATEGY", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Errorf("Unexpected port: %s", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" || cfg.DatabaseURL != "./data/youome.db" {
		t.Errorf("Unexpected database config: %s %s", cfg.DBDriver, cfg.DatabaseURL)
	}
	if cfg.MergeStrategy != "replace" {
		t.Errorf("Expected replace merge strategy, got %s", cfg.MergeStrategy)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected 5m cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Unexpected log config: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even when
	// empty, so unset the ones the file provides.
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("MERGE_STRATEGY")
	os.Unsetenv("CACHE_TTL")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DB_DRIVER=memory\nMERGE_STRATEGY=additive\nCACHE_TTL=30s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("MERGE_STRATEGY")
		os.Unsetenv("CACHE_TTL")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBDriver != "memory" || cfg.MergeStrategy != "additive" || cfg.CacheTTL != 30*time.Second {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"unknown merge strategy", map[string]string{"MERGE_STRATEGY": "sum"}},
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CACHE_TTL", "soon")
		if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Error("Expected error for bad CACHE_TTL")
		}
	})
}
