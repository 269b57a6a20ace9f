// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package store

import (
	"context"
	"sync"

	"github.com/tomtom215/biographer/internal/query"
)

// MemoryStore keeps every collection in process. It is the default for
// development and the backend used by handler tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	unique      map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(specs ...Spec) *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		unique:      uniqueFields(specs),
	}
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]Document), unique: s.unique[name]}
		s.collections[name] = c
	}
	return c
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

type memoryCollection struct {
	mu     sync.RWMutex
	docs   map[string]Document
	unique []string
}

func (c *memoryCollection) Insert(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored, err := prepareInsert(doc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[stored.ID()]; exists {
		return nil, ErrDuplicate
	}
	if c.violatesUnique(stored) {
		return nil, ErrDuplicate
	}
	c.docs[stored.ID()] = stored
	return stored.Clone(), nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (c *memoryCollection) FindOne(ctx context.Context, crit query.Criteria) (Document, error) {
	matched, err := c.match(ctx, crit)
	if err != nil {
		return nil, err
	}
	doc, err := first(matched)
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

func (c *memoryCollection) Find(ctx context.Context, d *query.Descriptor) ([]Document, error) {
	matched, err := c.match(ctx, d.Criteria())
	if err != nil {
		return nil, err
	}
	result := page(matched, d)
	for i := range result {
		result[i] = result[i].Clone()
	}
	return result, nil
}

func (c *memoryCollection) Count(ctx context.Context, crit query.Criteria) (int64, error) {
	matched, err := c.match(ctx, crit)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, patch Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := preparePatch(doc, patch)
	if err != nil {
		return nil, err
	}
	if c.violatesUnique(updated) {
		return nil, ErrDuplicate
	}
	c.docs[id] = updated
	return updated.Clone(), nil
}

func (c *memoryCollection) Increment(ctx context.Context, id, field string, delta float64) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := increment(doc, field, delta)
	c.docs[id] = updated
	return updated.Clone(), nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

// match returns the stored documents satisfying crit. Callers must clone
// before handing documents out.
func (c *memoryCollection) match(ctx context.Context, crit query.Criteria) ([]Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Document
	for _, doc := range c.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if query.Match(crit, doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// violatesUnique must be called with the write lock held.
func (c *memoryCollection) violatesUnique(doc Document) bool {
	if len(c.unique) == 0 {
		return false
	}
	for id, other := range c.docs {
		if id != doc.ID() && conflicts(doc, other, c.unique) {
			return true
		}
	}
	return false
}
