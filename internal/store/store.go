// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package store provides the document store behind every resource.
//
// Records are schemaless JSON documents grouped into named collections. Each
// backend (memory, badger, postgres) evaluates the same query.Descriptor, so
// handlers never know which one is configured:
//
//	users := st.Collection("users")
//	doc, err := users.Insert(ctx, store.Document{"email": "ada@example.com"})
//	page, err := users.Find(ctx, desc)
//	total, err := users.Count(ctx, desc.Count())
//
// Every call is bounded by the caller's context; handlers attach the
// configured query timeout before reaching the store.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/biographer/internal/query"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when no document matches an id or criteria.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a write would violate a unique field.
	ErrDuplicate = errors.New("duplicate value for unique field")

	// ErrClosed is returned by a store after Close.
	ErrClosed = errors.New("store closed")
)

// Collection is one named set of documents.
type Collection interface {
	// Insert assigns id, createdAt and updatedAt, stores the document and
	// returns the stored copy.
	Insert(ctx context.Context, doc Document) (Document, error)

	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// FindOne returns the first document matching c in id order, or
	// ErrNotFound.
	FindOne(ctx context.Context, c query.Criteria) (Document, error)

	// Find returns one page of documents, sorted and projected per d.
	Find(ctx context.Context, d *query.Descriptor) ([]Document, error)

	// Count returns how many documents match c.
	Count(ctx context.Context, c query.Criteria) (int64, error)

	// Update merges patch into the document and refreshes updatedAt. Keys
	// with a nil value are removed. id and createdAt are immutable.
	Update(ctx context.Context, id string, patch Document) (Document, error)

	// Increment adds delta to a numeric field, treating a missing field as
	// zero, and returns the updated document.
	Increment(ctx context.Context, id, field string, delta float64) (Document, error)

	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Store hands out collections and owns the backend connection.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close() error
}

// Spec declares a collection's unique fields. Backends reject writes that
// would store two documents with the same non-empty value for any of them.
type Spec struct {
	Name   string
	Unique []string
}

// uniqueFields indexes specs by collection name.
func uniqueFields(specs []Spec) map[string][]string {
	out := make(map[string][]string, len(specs))
	for _, s := range specs {
		out[s.Name] = append(out[s.Name], s.Unique...)
	}
	return out
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.NewString()
}

// Now is the store clock, overridable in tests.
var Now = func() time.Time {
	return time.Now().UTC()
}

// Timestamp formats t the way documents store times.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// stamp prepares a new document for insertion.
func stamp(doc Document) Document {
	out := doc.Clone()
	now := Timestamp(Now())
	if out.ID() == "" {
		out[query.FieldID] = NewID()
	}
	out[query.FieldCreatedAt] = now
	out[query.FieldUpdatedAt] = now
	return out
}

// merge applies patch to a copy of doc.
func merge(doc, patch Document) Document {
	out := doc.Clone()
	for k, v := range patch {
		if k == query.FieldID || k == query.FieldCreatedAt {
			continue
		}
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = cloneValue(v)
	}
	out[query.FieldUpdatedAt] = Timestamp(Now())
	return out
}

// conflicts reports whether a and b share a non-empty value for any field.
func conflicts(a, b Document, fields []string) bool {
	for _, f := range fields {
		av, bv := a.String(f), b.String(f)
		if av != "" && av == bv {
			return true
		}
	}
	return false
}

// prepareInsert normalizes and stamps a new document.
func prepareInsert(doc Document) (Document, error) {
	normalized, err := Normalize(doc)
	if err != nil {
		return nil, err
	}
	return stamp(normalized), nil
}

// preparePatch normalizes a patch and applies it to doc.
func preparePatch(doc, patch Document) (Document, error) {
	normalized, err := Normalize(patch)
	if err != nil {
		return nil, err
	}
	return merge(doc, normalized), nil
}

// increment applies delta to a copy of doc.
func increment(doc Document, field string, delta float64) Document {
	return merge(doc, Document{field: doc.Float(field) + delta})
}

// page sorts matched documents and returns the projected window.
func page(matched []Document, d *query.Descriptor) []Document {
	maps := make([]map[string]any, len(matched))
	for i, doc := range matched {
		maps[i] = doc
	}
	query.SortDocuments(maps, d.Sort())
	window := d.Window(maps)

	out := make([]Document, len(window))
	projection := d.Projection()
	for i, m := range window {
		out[i] = projection.Apply(m)
	}
	return out
}

// first returns the match with the lowest id.
func first(matched []Document) (Document, error) {
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	best := matched[0]
	for _, doc := range matched[1:] {
		if doc.ID() < best.ID() {
			best = doc
		}
	}
	return best, nil
}
