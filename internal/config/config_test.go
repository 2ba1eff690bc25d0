package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StartLoc != "EFHK" {
		t.Errorf("start location = %q, want EFHK", cfg.StartLoc)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("http timeout = %v, want none", cfg.HTTPTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.SessionTTL)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "GAME_API_URL=http://game.internal:5000/\nLOG_LEVEL=DEBUG\nSTART_LOCATION=EFTU\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing dotenv: %v", err)
	}
	t.Setenv("START_LOCATION", "EFOU")
	t.Cleanup(func() {
		os.Unsetenv("GAME_API_URL")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.GameAPIURL != "http://game.internal:5000/" {
		t.Errorf("game api url = %q", cfg.GameAPIURL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.StartLoc != "EFOU" {
		t.Errorf("start location = %q, want environment value EFOU", cfg.StartLoc)
	}
}
