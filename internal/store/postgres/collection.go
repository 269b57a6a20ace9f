// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

type collection struct {
	pool PgxPool
	name string
}

func (c *collection) Insert(ctx context.Context, doc store.Document) (store.Document, error) {
	stored, err := store.Normalize(doc)
	if err != nil {
		return nil, err
	}
	now := store.Timestamp(store.Now())
	if stored.ID() == "" {
		stored[query.FieldID] = store.NewID()
	}
	stored[query.FieldCreatedAt] = now
	stored[query.FieldUpdatedAt] = now

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	_, err = c.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
		c.name, stored.ID(), data)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("insert %s: %w", c.name, err)
	}
	return stored, nil
}

func (c *collection) Get(ctx context.Context, id string) (store.Document, error) {
	return c.scanOne(c.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`, c.name, id))
}

func (c *collection) FindOne(ctx context.Context, crit query.Criteria) (store.Document, error) {
	where, args := c.where(crit)
	return c.scanOne(c.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE `+where+` ORDER BY id COLLATE "C" LIMIT 1`, args...))
}

func (c *collection) Find(ctx context.Context, d *query.Descriptor) ([]store.Document, error) {
	where, args := c.where(d.Criteria())
	sql := `SELECT doc FROM documents WHERE ` + where +
		` ORDER BY ` + query.OrderBy(d.Sort()) +
		` LIMIT ` + strconv.Itoa(d.Limit()) + ` OFFSET ` + strconv.Itoa(d.Skip())

	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	defer rows.Close()

	projection := d.Projection()
	out := []store.Document{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		doc, err := store.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		out = append(out, projection.Apply(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	return out, nil
}

func (c *collection) Count(ctx context.Context, crit query.Criteria) (int64, error) {
	where, args := c.where(crit)
	var n int64
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM documents WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}

func (c *collection) Update(ctx context.Context, id string, patch store.Document) (store.Document, error) {
	normalized, err := store.Normalize(patch)
	if err != nil {
		return nil, err
	}
	set := store.Document{}
	remove := []string{}
	for k, v := range normalized {
		switch {
		case k == query.FieldID || k == query.FieldCreatedAt:
		case v == nil:
			remove = append(remove, k)
		default:
			set[k] = v
		}
	}
	set[query.FieldUpdatedAt] = store.Timestamp(store.Now())

	data, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}
	doc, err := c.scanOne(c.pool.QueryRow(ctx,
		`UPDATE documents SET doc = (doc || $3::jsonb) - $4::text[] WHERE collection = $1 AND id = $2 RETURNING doc`,
		c.name, id, data, remove))
	if isUniqueViolation(err) {
		return nil, store.ErrDuplicate
	}
	return doc, err
}

func (c *collection) Increment(ctx context.Context, id, field string, delta float64) (store.Document, error) {
	return c.scanOne(c.pool.QueryRow(ctx,
		`UPDATE documents SET doc = jsonb_set(doc, ARRAY[$3::text], to_jsonb(COALESCE((doc->>$3::text)::numeric, 0) + $4::numeric))`+
			` || jsonb_build_object('updatedAt', $5::text) WHERE collection = $1 AND id = $2 RETURNING doc`,
		c.name, id, field, delta, store.Timestamp(store.Now())))
}

func (c *collection) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// where scopes crit to this collection; the collection name is always $1.
func (c *collection) where(crit query.Criteria) (string, []any) {
	wb := query.NewWhereBuilder().StartAt(2)
	wb.AddCriteria(crit)
	clause, args := wb.Build()
	return "collection = $1 AND " + clause, append([]any{c.name}, args...)
}

func (c *collection) scanOne(row pgx.Row) (store.Document, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return store.Unmarshal(data)
}
