// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/biographer/internal/query"
)

// Key prefixes for BadgerDB storage
const (
	docKeyPrefix    = "doc:"
	uniqueKeyPrefix = "uniq:"
)

// BadgerStore persists documents in an embedded BadgerDB. Documents live
// under doc:<collection>:<id>; unique field values are claimed under
// uniq:<collection>:<field>:<value> so duplicate checks are a point lookup.
type BadgerStore struct {
	db     *badger.DB
	unique map[string][]string
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM (tests).
	InMemory bool
}

// OpenBadger opens or creates a BadgerDB-backed store.
func OpenBadger(opts BadgerOptions, specs ...Spec) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, unique: uniqueFields(specs)}, nil
}

// Collection returns the named collection.
func (s *BadgerStore) Collection(name string) Collection {
	return &badgerCollection{db: s.db, name: name, unique: s.unique[name]}
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerCollection struct {
	db     *badger.DB
	name   string
	unique []string
}

func (c *badgerCollection) docKey(id string) []byte {
	return []byte(docKeyPrefix + c.name + ":" + id)
}

func (c *badgerCollection) prefix() []byte {
	return []byte(docKeyPrefix + c.name + ":")
}

func (c *badgerCollection) uniqueKey(field, value string) []byte {
	return []byte(uniqueKeyPrefix + c.name + ":" + field + ":" + value)
}

func (c *badgerCollection) Insert(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored, err := prepareInsert(doc)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(c.docKey(stored.ID())); err == nil {
			return ErrDuplicate
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get document: %w", err)
		}
		if err := c.claimUnique(txn, nil, stored); err != nil {
			return err
		}
		return txn.Set(c.docKey(stored.ID()), data)
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (c *badgerCollection) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc Document
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = c.load(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *badgerCollection) FindOne(ctx context.Context, crit query.Criteria) (Document, error) {
	matched, err := c.match(ctx, crit)
	if err != nil {
		return nil, err
	}
	return first(matched)
}

func (c *badgerCollection) Find(ctx context.Context, d *query.Descriptor) ([]Document, error) {
	matched, err := c.match(ctx, d.Criteria())
	if err != nil {
		return nil, err
	}
	return page(matched, d), nil
}

func (c *badgerCollection) Count(ctx context.Context, crit query.Criteria) (int64, error) {
	matched, err := c.match(ctx, crit)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (c *badgerCollection) Update(ctx context.Context, id string, patch Document) (Document, error) {
	return c.modify(ctx, id, func(doc Document) (Document, error) {
		return preparePatch(doc, patch)
	})
}

func (c *badgerCollection) Increment(ctx context.Context, id, field string, delta float64) (Document, error) {
	return c.modify(ctx, id, func(doc Document) (Document, error) {
		return increment(doc, field, delta), nil
	})
}

func (c *badgerCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		doc, err := c.load(txn, id)
		if err != nil {
			return err
		}
		for _, f := range c.unique {
			if v := doc.String(f); v != "" {
				if err := txn.Delete(c.uniqueKey(f, v)); err != nil {
					return fmt.Errorf("release unique %s: %w", f, err)
				}
			}
		}
		return txn.Delete(c.docKey(id))
	})
}

// modify runs a read-modify-write in one transaction.
func (c *badgerCollection) modify(ctx context.Context, id string, fn func(Document) (Document, error)) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated Document
	err := c.db.Update(func(txn *badger.Txn) error {
		doc, err := c.load(txn, id)
		if err != nil {
			return err
		}
		updated, err = fn(doc)
		if err != nil {
			return err
		}
		if err := c.claimUnique(txn, doc, updated); err != nil {
			return err
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		return txn.Set(c.docKey(id), data)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// claimUnique reserves doc's unique values, releasing prev's stale ones.
func (c *badgerCollection) claimUnique(txn *badger.Txn, prev, doc Document) error {
	for _, f := range c.unique {
		v := doc.String(f)
		old := ""
		if prev != nil {
			old = prev.String(f)
		}
		if v == old {
			continue
		}
		if v != "" {
			item, err := txn.Get(c.uniqueKey(f, v))
			switch {
			case err == nil:
				owner, verr := item.ValueCopy(nil)
				if verr != nil {
					return fmt.Errorf("read unique %s: %w", f, verr)
				}
				if string(owner) != doc.ID() {
					return ErrDuplicate
				}
			case !errors.Is(err, badger.ErrKeyNotFound):
				return fmt.Errorf("check unique %s: %w", f, err)
			}
			if err := txn.Set(c.uniqueKey(f, v), []byte(doc.ID())); err != nil {
				return fmt.Errorf("claim unique %s: %w", f, err)
			}
		}
		if old != "" {
			if err := txn.Delete(c.uniqueKey(f, old)); err != nil {
				return fmt.Errorf("release unique %s: %w", f, err)
			}
		}
	}
	return nil
}

func (c *badgerCollection) load(txn *badger.Txn, id string) (Document, error) {
	item, err := txn.Get(c.docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	var doc Document
	err = item.Value(func(val []byte) error {
		var uerr error
		doc, uerr = Unmarshal(val)
		return uerr
	})
	return doc, err
}

// match scans the collection prefix and keeps documents satisfying crit.
func (c *badgerCollection) match(ctx context.Context, crit query.Criteria) ([]Document, error) {
	var out []Document
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = c.prefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc Document
			err := it.Item().Value(func(val []byte) error {
				var uerr error
				doc, uerr = Unmarshal(val)
				return uerr
			})
			if err != nil {
				return err
			}
			if query.Match(crit, doc) {
				out = append(out, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
