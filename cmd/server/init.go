// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/biographer/internal/api"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/cache"
	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
	"github.com/tomtom215/biographer/internal/store/postgres"
)

// Store backends accepted by STORE_BACKEND.
const (
	storeMemory   = "memory"
	storeBadger   = "badger"
	storePostgres = "postgres"
)

// openStore opens the configured document store with the API's collection
// specs.
func openStore(ctx context.Context, cfg *config.StoreConfig) (store.Store, error) {
	specs := api.Specs()

	switch cfg.Backend {
	case "", storeMemory:
		logging.Warn().Msg("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore(specs...), nil

	case storeBadger:
		return store.OpenBadger(store.BadgerOptions{Path: cfg.BadgerPath}, specs...)

	case storePostgres:
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return postgres.Open(ctx, postgres.Options{
			DSN:      cfg.DatabaseURL,
			MaxConns: cfg.MaxConns,
			Migrate:  cfg.Migrate,
		}, specs...)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// openCache returns the configured cache backend, or nil when response
// caching is disabled.
func openCache(ctx context.Context, cfg *config.CacheConfig) (cache.Cacher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "", cache.BackendMemory:
		return cache.NewMemory(), nil
	case cache.BackendRedis:
		return cache.OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// bootstrapAdmin creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when the users collection is empty. It reports whether an
// account was created.
func bootstrapAdmin(ctx context.Context, users store.Collection, sec *config.SecurityConfig) (bool, error) {
	if sec.AdminEmail == "" || sec.AdminPassword == "" {
		return false, nil
	}

	n, err := users.Count(ctx, query.Where())
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(sec.AdminPassword, sec.BcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	doc := models.UserDocument("Site", "Admin", models.NormalizeEmail(sec.AdminEmail), hash, string(auth.RoleAdmin), true)
	if _, err := users.Insert(ctx, doc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("insert admin: %w", err)
	}
	return true, nil
}
