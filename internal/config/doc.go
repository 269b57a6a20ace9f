// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package config provides centralized configuration management for Biographer.

# Configuration Sources

Configuration is layered with Koanf v2; later layers win:

 1. Built-in defaults (defaultConfig)
 2. YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/biographer/config.yaml or /etc/biographer/config.yml
 3. Environment variables, mapped through envMappings

# Configuration Structure

  - ServerConfig: listen address, timeouts, environment, public URL
  - APIConfig: default and maximum page size
  - SecurityConfig: JWT secret and lifetime, cookie, bcrypt cost, CORS,
    trusted proxies, casbin policy file, admin bootstrap account
  - RateLimitConfig: api, auth and newsletter route classes
  - StoreConfig: memory, badger or postgres document store
  - CacheConfig: memory or redis response cache
  - EventsConfig: memory or nats activity bus
  - MailConfig: SMTP delivery, circuit breaker and campaign send rate
  - LoggingConfig: zerolog level, format and caller

# Environment Variables

Common variables:

	PORT, NODE_ENV, PUBLIC_URL, QUERY_TIMEOUT
	JWT_SECRET, JWT_EXPIRES_IN, JWT_COOKIE_NAME, BCRYPT_COST
	CORS_ORIGINS, TRUSTED_PROXIES (comma separated)
	ADMIN_EMAIL, ADMIN_PASSWORD, AUTHZ_POLICY
	DISABLE_RATE_LIMIT, RATE_LIMIT_<CLASS>_WINDOW, RATE_LIMIT_<CLASS>_MAX
	STORE_BACKEND, BADGER_PATH, DATABASE_URL, DB_MAX_CONNS, DB_MIGRATE
	CACHE_ENABLED, CACHE_BACKEND, CACHE_TTL, REDIS_URL, REDIS_PREFIX
	EVENTS_BACKEND, NATS_URL, NATS_EMBEDDED, NATS_QUEUE_GROUP
	MAIL_ENABLED, SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, EMAIL_FROM
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Load returns an error rather than a partially valid Config. JWT_SECRET is
always required and must be at least 32 characters outside development.
Backend specific settings (DATABASE_URL, REDIS_URL, SMTP_HOST) are only
required when that backend is selected.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
