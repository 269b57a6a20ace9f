// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package postgres implements the document store on PostgreSQL. Every
// collection shares one JSONB table; list queries are compiled to SQL by
// query.WhereBuilder and query.OrderBy.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/store"
)

// PgxPool is a minimal abstraction over a Postgres connection pool.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Options configures Open.
type Options struct {
	DSN      string
	MaxConns int32
	Migrate  bool
}

// Store is the PostgreSQL document store.
type Store struct {
	pool PgxPool
}

// Open connects, optionally migrates, and ensures unique indexes for specs.
func Open(ctx context.Context, opts Options, specs ...store.Spec) (*Store, error) {
	if opts.Migrate {
		if err := Migrate(ctx, opts.DSN); err != nil {
			return nil, err
		}
	}

	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := NewWithPool(pool)
	if err := s.EnsureIndexes(ctx, specs...); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool PgxPool) *Store {
	return &Store{pool: pool}
}

// Collection returns the named collection.
func (s *Store) Collection(name string) store.Collection {
	return &collection{pool: s.pool, name: name}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var identPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// EnsureIndexes creates one partial unique expression index per declared
// unique field.
func (s *Store) EnsureIndexes(ctx context.Context, specs ...store.Spec) error {
	for _, spec := range specs {
		for _, field := range spec.Unique {
			stmt := uniqueIndexSQL(spec.Name, field)
			if _, err := s.pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("create unique index %s.%s: %w", spec.Name, field, err)
			}
		}
	}
	return nil
}

func uniqueIndexSQL(collection, field string) string {
	name := identPattern.ReplaceAllString(strings.ToLower("documents_"+collection+"_"+field+"_key"), "_")
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON documents ((doc->>%s)) WHERE collection = %s AND doc->>%s <> ''",
		pgx.Identifier{name}.Sanitize(), literal(field), literal(collection), literal(field),
	)
}

func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}

// gooseLogger routes migration output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logging.Info().Str("component", "migrate").Msgf(strings.TrimSpace(format), v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logging.Error().Str("component", "migrate").Msgf(strings.TrimSpace(format), v...)
}
