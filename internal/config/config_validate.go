// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package config

import (
	"fmt"
	"strings"
)

// minJWTSecretLength is the shortest HS256 secret accepted outside development.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateMail(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, production, test; got %q", c.Server.Environment)
	}
	return validateHTTPURL(c.Server.PublicURL, "PUBLIC_URL")
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must be >= DEFAULT_PAGE_SIZE (%d)", c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

// validateSecurity validates JWT and cookie settings
func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !c.IsDevelopment() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters outside development", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Security.CookieName == "" {
		return fmt.Errorf("JWT_COOKIE_NAME must not be empty")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Security.BcryptCost)
	}
	if (c.Security.AdminEmail == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// validateRateLimits validates every route class has a usable window
func (c *Config) validateRateLimits() error {
	if c.RateLimit.Disabled {
		return nil
	}
	rules := map[string]RateLimitRule{
		"api":        c.RateLimit.API,
		"auth":       c.RateLimit.Auth,
		"newsletter": c.RateLimit.Newsletter,
	}
	for name, rule := range rules {
		if rule.Max < 1 {
			return fmt.Errorf("rate limit %s: max must be at least 1", name)
		}
		if rule.Window <= 0 {
			return fmt.Errorf("rate limit %s: window must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
		return nil
	case "badger":
		if c.Store.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger")
		}
		return nil
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
		if !strings.HasPrefix(c.Store.DatabaseURL, "postgres://") && !strings.HasPrefix(c.Store.DatabaseURL, "postgresql://") {
			return fmt.Errorf("DATABASE_URL must use the postgres:// scheme")
		}
		return nil
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, badger, postgres; got %q", c.Store.Backend)
	}
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	switch c.Cache.Backend {
	case "memory":
		if c.Cache.SweepInterval <= 0 {
			return fmt.Errorf("CACHE_SWEEP_INTERVAL must be positive")
		}
		return nil
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
		return validateRedisURL(c.Cache.RedisURL)
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis; got %q", c.Cache.Backend)
	}
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
		return nil
	case "nats":
		if c.Events.EmbeddedServer {
			return nil
		}
		return validateNATSURL(c.Events.NATSURL)
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of memory, nats; got %q", c.Events.Backend)
	}
}

func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	if c.Mail.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when MAIL_ENABLED=true")
	}
	if c.Mail.SMTPPort < 1 || c.Mail.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.Mail.SMTPPort)
	}
	if c.Mail.From == "" {
		return fmt.Errorf("EMAIL_FROM is required when MAIL_ENABLED=true")
	}
	if c.Mail.NewsletterRate <= 0 {
		return fmt.Errorf("NEWSLETTER_RATE must be positive")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console; got %q", c.Logging.Format)
	}
}
