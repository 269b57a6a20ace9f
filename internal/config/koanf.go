// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/biographer/config.yaml",
	"/etc/biographer/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         5000,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			Environment:  "development",
			QueryTimeout: 5 * time.Second,
			PublicURL:    "http://localhost:5000",
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			TokenTTL:       90 * 24 * time.Hour,
			CookieName:     "jwt",
			CookieSecure:   false,
			BcryptCost:     12,
			CORSOrigins:    []string{"*"},
			TrustedProxies: []string{},
		},
		RateLimit: RateLimitConfig{
			Disabled: false,
			API: RateLimitRule{
				Window:  15 * time.Minute,
				Max:     1000,
				Message: "Too many requests from this IP, please try again later",
			},
			Auth: RateLimitRule{
				Window:  time.Hour,
				Max:     50,
				Message: "Too many authentication attempts, please try again in an hour",
			},
			Newsletter: RateLimitRule{
				Window:  time.Hour,
				Max:     5,
				Message: "Too many subscription attempts. Please try again in an hour.",
			},
		},
		Store: StoreConfig{
			Backend:    "memory",
			BadgerPath: "/data/biographer",
			MaxConns:   10,
			Migrate:    true,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Backend:       "memory",
			DefaultTTL:    5 * time.Minute,
			SweepInterval: time.Minute,
			RedisPrefix:   "cache:",
		},
		Events: EventsConfig{
			Backend:        "memory",
			NATSURL:        "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedPort:   4222,
			QueueGroup:     "biographer",
		},
		Mail: MailConfig{
			Enabled:         false,
			SMTPPort:        587,
			From:            "Biographer <no-reply@localhost>",
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			NewsletterRate:  10,
			NewsletterBurst: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":     "server.port",
	"port":          "server.port",
	"http_host":     "server.host",
	"http_timeout":  "server.timeout",
	"environment":   "server.environment",
	"node_env":      "server.environment",
	"query_timeout": "server.query_timeout",
	"public_url":    "server.public_url",

	// API
	"default_page_size": "api.default_page_size",
	"max_page_size":     "api.max_page_size",

	// Security
	"jwt_secret":      "security.jwt_secret",
	"jwt_expires_in":  "security.token_ttl",
	"jwt_cookie_name": "security.cookie_name",
	"cookie_secure":   "security.cookie_secure",
	"bcrypt_cost":     "security.bcrypt_cost",
	"cors_origins":    "security.cors_origins",
	"trusted_proxies": "security.trusted_proxies",
	"admin_email":     "security.admin_email",
	"admin_password":  "security.admin_password",
	"authz_policy":    "security.policy_path",

	// Rate limiting
	"disable_rate_limit":           "rate_limit.disabled",
	"rate_limit_api_window":        "rate_limit.api.window",
	"rate_limit_api_max":           "rate_limit.api.max",
	"rate_limit_auth_window":       "rate_limit.auth.window",
	"rate_limit_auth_max":          "rate_limit.auth.max",
	"rate_limit_newsletter_window": "rate_limit.newsletter.window",
	"rate_limit_newsletter_max":    "rate_limit.newsletter.max",

	// Store
	"store_backend": "store.backend",
	"badger_path":   "store.badger_path",
	"database_url":  "store.database_url",
	"db_max_conns":  "store.max_conns",
	"db_migrate":    "store.migrate",

	// Cache
	"cache_enabled":        "cache.enabled",
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.default_ttl",
	"cache_sweep_interval": "cache.sweep_interval",
	"redis_url":            "cache.redis_url",
	"redis_prefix":         "cache.redis_prefix",

	// Events
	"events_backend":     "events.backend",
	"nats_url":           "events.nats_url",
	"nats_embedded":      "events.embedded_server",
	"nats_embedded_port": "events.embedded_port",
	"nats_queue_group":   "events.queue_group",

	// Mail
	"mail_enabled":          "mail.enabled",
	"smtp_host":             "mail.smtp_host",
	"smtp_port":             "mail.smtp_port",
	"smtp_username":         "mail.username",
	"smtp_password":         "mail.password",
	"email_from":            "mail.from",
	"mail_breaker_failures": "mail.breaker_failures",
	"mail_breaker_timeout":  "mail.breaker_timeout",
	"newsletter_rate":       "mail.newsletter_rate",
	"newsletter_burst":      "mail.newsletter_burst",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - JWT_SECRET -> security.jwt_secret
//   - STORE_BACKEND -> store.backend
//   - REDIS_URL -> cache.redis_url
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never
	// pollute the configuration.
	return ""
}
