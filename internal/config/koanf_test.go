// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.QueryTimeout != 5*time.Second {
		t.Errorf("Server.QueryTimeout = %v, want 5s", cfg.Server.QueryTimeout)
	}

	// Pagination defaults
	if cfg.API.DefaultPageSize != 10 {
		t.Errorf("API.DefaultPageSize = %d, want 10", cfg.API.DefaultPageSize)
	}
	if cfg.API.MaxPageSize != 100 {
		t.Errorf("API.MaxPageSize = %d, want 100", cfg.API.MaxPageSize)
	}

	// Security defaults
	if cfg.Security.JWTSecret != "" {
		t.Errorf("Security.JWTSecret should be empty by default")
	}
	if cfg.Security.CookieName != "jwt" {
		t.Errorf("Security.CookieName = %q, want jwt", cfg.Security.CookieName)
	}
	if cfg.Security.TokenTTL != 90*24*time.Hour {
		t.Errorf("Security.TokenTTL = %v, want 90d", cfg.Security.TokenTTL)
	}

	// Rate limit classes
	if cfg.RateLimit.API.Max != 1000 || cfg.RateLimit.API.Window != 15*time.Minute {
		t.Errorf("RateLimit.API = %+v, want 1000 per 15m", cfg.RateLimit.API)
	}
	if cfg.RateLimit.Auth.Max != 50 || cfg.RateLimit.Auth.Window != time.Hour {
		t.Errorf("RateLimit.Auth = %+v, want 50 per 1h", cfg.RateLimit.Auth)
	}
	if cfg.RateLimit.Newsletter.Max != 5 || cfg.RateLimit.Newsletter.Window != time.Hour {
		t.Errorf("RateLimit.Newsletter = %+v, want 5 per 1h", cfg.RateLimit.Newsletter)
	}

	// Backends
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.DefaultTTL != 5*time.Minute {
		t.Errorf("Cache = %+v, want memory backend with 5m TTL", cfg.Cache)
	}
	if cfg.Events.Backend != "memory" {
		t.Errorf("Events.Backend = %q, want memory", cfg.Events.Backend)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"JWT_SECRET", "security.jwt_secret"},
		{"JWT_EXPIRES_IN", "security.token_ttl"},
		{"HTTP_PORT", "server.port"},
		{"PORT", "server.port"},
		{"NODE_ENV", "server.environment"},
		{"STORE_BACKEND", "store.backend"},
		{"DATABASE_URL", "store.database_url"},
		{"REDIS_URL", "cache.redis_url"},
		{"RATE_LIMIT_AUTH_MAX", "rate_limit.auth.max"},
		{"NATS_URL", "events.nats_url"},
		{"SMTP_HOST", "mail.smtp_host"},
		{"LOG_LEVEL", "logging.level"},
		{"log_level", "logging.level"},

		// Unmapped keys are skipped
		{"HOME", ""},
		{"PATH", ""},
		{"RANDOM_VARIABLE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile tests config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_AUTH_MAX", "7")
	t.Setenv("RATE_LIMIT_AUTH_WINDOW", "10m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.RateLimit.Auth.Max != 7 {
		t.Errorf("RateLimit.Auth.Max = %d, want 7", cfg.RateLimit.Auth.Max)
	}
	if cfg.RateLimit.Auth.Window != 10*time.Minute {
		t.Errorf("RateLimit.Auth.Window = %v, want 10m", cfg.RateLimit.Auth.Window)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}

	// Untouched defaults survive
	if cfg.RateLimit.API.Max != 1000 {
		t.Errorf("RateLimit.API.Max = %d, want 1000", cfg.RateLimit.API.Max)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file values
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
security:
  jwt_secret: file-secret
logging:
  level: warn
store:
  backend: badger
  badger_path: /tmp/biographer-test
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (from file)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env override)", cfg.Logging.Level)
	}
	if cfg.Store.Backend != "badger" || cfg.Store.BadgerPath != "/tmp/biographer-test" {
		t.Errorf("Store = %+v, want badger at /tmp/biographer-test", cfg.Store)
	}
	if cfg.Security.JWTSecret != "file-secret" {
		t.Errorf("Security.JWTSecret = %q, want file-secret", cfg.Security.JWTSecret)
	}
}

// TestLoadWithKoanfValidation tests that validation errors surface from the loader
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing JWT secret",
			env:  map[string]string{},
		},
		{
			name: "unknown store backend",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_BACKEND": "mongo"},
		},
		{
			name: "postgres without database url",
			env:  map[string]string{"JWT_SECRET": "x", "STORE_BACKEND": "postgres"},
		},
		{
			name: "redis cache without url",
			env:  map[string]string{"JWT_SECRET": "x", "CACHE_BACKEND": "redis"},
		},
		{
			name: "short secret in production",
			env:  map[string]string{"JWT_SECRET": "short", "ENVIRONMENT": "production"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() error = nil, want validation error")
			}
		})
	}
}
