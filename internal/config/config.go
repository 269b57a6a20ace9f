// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML config file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Server: HTTP listener, timeouts, per-request query deadline
//     - Store: Document store backend (memory, badger, postgres)
//     - Cache: Response cache backend (memory, redis) and TTLs
//     - Events: Activity event bus (memory, nats)
//
//  2. API & Security:
//     - API: Pagination defaults shared by every list endpoint
//     - Security: JWT signing, auth cookie, CORS, trusted proxies
//     - RateLimit: Per route class request windows
//
//  3. Side effects:
//     - Mail: SMTP delivery and newsletter send throttling
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
	Mail      MailConfig      `koanf:"mail"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`

	// QueryTimeout bounds every data store call made while serving a request.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// PublicURL is used to build links in outgoing mail (verification, unsubscribe).
	PublicURL string `koanf:"public_url"`
}

// APIConfig holds pagination defaults applied when a resource schema does not
// declare its own.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and transport security settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	CookieName     string        `koanf:"cookie_name"`
	CookieSecure   bool          `koanf:"cookie_secure"`
	BcryptCost     int           `koanf:"bcrypt_cost"`
	CORSOrigins    []string      `koanf:"cors_origins"`
	TrustedProxies []string      `koanf:"trusted_proxies"`

	// PolicyPath optionally replaces the embedded role policy with a casbin
	// CSV policy file.
	PolicyPath string `koanf:"policy_path"`

	// AdminEmail/AdminPassword bootstrap the first admin account when the
	// users collection is empty.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// RateLimitRule configures one route class.
type RateLimitRule struct {
	Window  time.Duration `koanf:"window"`
	Max     int           `koanf:"max"`
	Message string        `koanf:"message"`
}

// RateLimitConfig holds the per route class limits.
type RateLimitConfig struct {
	Disabled   bool          `koanf:"disabled"`
	API        RateLimitRule `koanf:"api"`
	Auth       RateLimitRule `koanf:"auth"`
	Newsletter RateLimitRule `koanf:"newsletter"`
}

// StoreConfig selects and configures the document store.
//
// Backends:
//   - memory: process-local maps, lost on restart (development and tests)
//   - badger: embedded BadgerDB at BadgerPath
//   - postgres: JSONB documents in PostgreSQL at DatabaseURL
type StoreConfig struct {
	Backend     string `koanf:"backend"`
	BadgerPath  string `koanf:"badger_path"`
	DatabaseURL string `koanf:"database_url"`
	MaxConns    int32  `koanf:"max_conns"`
	Migrate     bool   `koanf:"migrate"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Backend       string        `koanf:"backend"`
	DefaultTTL    time.Duration `koanf:"default_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	RedisURL      string        `koanf:"redis_url"`
	RedisPrefix   string        `koanf:"redis_prefix"`
}

// EventsConfig configures the activity event bus.
type EventsConfig struct {
	Backend        string `koanf:"backend"`
	NATSURL        string `koanf:"nats_url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedPort   int    `koanf:"embedded_port"`
	QueueGroup     string `koanf:"queue_group"`
}

// MailConfig configures outgoing mail.
type MailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	SMTPHost string `koanf:"smtp_host"`
	SMTPPort int    `koanf:"smtp_port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`

	// BreakerFailures consecutive failures open the SMTP circuit breaker for
	// BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// NewsletterRate is the number of campaign mails sent per second.
	NewsletterRate  float64 `koanf:"newsletter_rate"`
	NewsletterBurst int     `koanf:"newsletter_burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}

// Load loads configuration from all layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
