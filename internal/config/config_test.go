package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("DEFAULT_CURRENCY", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.LogFormat != "console" || cfg.DefaultCurrency != "USD" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
listen_addr: ":7070"
db_path: /tmp/tally-test.db
jwt_secret: file-secret
token_duration: 2h
log_format: json
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("DB_PATH", "/env/override.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":7070" || cfg.JWTSecret != "file-secret" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Errorf("TokenDuration = %v, want 2h", cfg.TokenDuration)
	}
	if cfg.DBPath != "/env/override.db" {
		t.Errorf("env override lost: DBPath = %q", cfg.DBPath)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when no jwt secret is configured")
	}
}
