// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	ListenAddr      string
	DBPath          string
	JWTSecret       string
	TokenDuration   time.Duration
	LogLevel        string
	LogFormat       string // "console" or "json"
	DefaultCurrency string
}

// fileConfig mirrors Config with yaml tags and string durations.
type fileConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	DBPath          string `yaml:"db_path"`
	JWTSecret       string `yaml:"jwt_secret"`
	TokenDuration   string `yaml:"token_duration"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	DefaultCurrency string `yaml:"default_currency"`
}

// Load reads the config file named by CONFIG_PATH (if set), then applies
// environment overrides and defaults. A missing file is not an error; env
// vars and defaults carry a zero-config startup.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      ":8080",
		DBPath:          "./data/tally.db",
		TokenDuration:   24 * time.Hour,
		LogLevel:        "info",
		LogFormat:       "console",
		DefaultCurrency: "USD",
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret required: set jwt_secret in config or JWT_SECRET env var")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.JWTSecret != "" {
		c.JWTSecret = fc.JWTSecret
	}
	if fc.TokenDuration != "" {
		d, err := time.ParseDuration(fc.TokenDuration)
		if err != nil {
			return fmt.Errorf("invalid token_duration %q: %w", fc.TokenDuration, err)
		}
		c.TokenDuration = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	if fc.DefaultCurrency != "" {
		c.DefaultCurrency = fc.DefaultCurrency
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("DEFAULT_CURRENCY"); v != "" {
		c.DefaultCurrency = v
	}
}
