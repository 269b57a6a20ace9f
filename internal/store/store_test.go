// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package store

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/tomtom215/biographer/internal/query"
)

var testSpecs = []Spec{{Name: "people", Unique: []string{"email"}}}

var peopleSchema = query.NewSchema("people",
	query.Field{Name: "name", Kind: query.String, Caps: query.All},
	query.Field{Name: "email", Kind: query.String, Caps: query.Filter},
	query.Field{Name: "age", Kind: query.Number, Caps: query.Filter | query.Sort | query.Project},
	query.Field{Name: "active", Kind: query.Bool, Caps: query.Filter | query.Project},
	query.Field{Name: "password", Kind: query.String},
).WithHidden("password").WithDefaultSort("name")

// backends returns a fresh instance of every in-process backend.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	bs, err := OpenBadger(BadgerOptions{InMemory: true}, testSpecs...)
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = bs.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(testSpecs...),
		"badger": bs,
	}
}

func seed(t *testing.T, c Collection) map[string]Document {
	t.Helper()
	people := []Document{
		{"name": "Ada", "email": "ada@example.com", "age": 36, "active": true, "password": "h1"},
		{"name": "Alan", "email": "alan@example.com", "age": 41, "active": true, "password": "h2"},
		{"name": "Grace", "email": "grace@example.com", "age": 85, "active": false, "password": "h3"},
		{"name": "Emmy", "email": "emmy@example.com", "active": true, "password": "h4"},
	}
	out := make(map[string]Document, len(people))
	for _, p := range people {
		doc, err := c.Insert(context.Background(), p)
		if err != nil {
			t.Fatalf("Insert(%v) error = %v", p["name"], err)
		}
		out[doc.String("name")] = doc
	}
	return out
}

func find(t *testing.T, c Collection, raw string) ([]Document, int64) {
	t.Helper()
	params, _ := url.ParseQuery(raw)
	d, err := query.Parse(peopleSchema, params)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", raw, err)
	}
	docs, err := c.Find(context.Background(), d)
	if err != nil {
		t.Fatalf("Find(%q) error = %v", raw, err)
	}
	total, err := c.Count(context.Background(), d.Count())
	if err != nil {
		t.Fatalf("Count(%q) error = %v", raw, err)
	}
	return docs, total
}

func names(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.String("name")
	}
	return out
}

func TestInsertStampsDocument(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			doc, err := st.Collection("people").Insert(context.Background(), Document{"name": "Ada", "age": 36})
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if doc.ID() == "" {
				t.Error("Insert() did not assign an id")
			}
			if doc.String(query.FieldCreatedAt) == "" || doc.String(query.FieldUpdatedAt) == "" {
				t.Errorf("Insert() missing timestamps: %v", doc)
			}
			if _, ok := doc["age"].(float64); !ok {
				t.Errorf("age stored as %T, want float64", doc["age"])
			}
		})
	}
}

func TestFindFiltersSortsAndPaginates(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := st.Collection("people")
			seed(t, c)

			tests := []struct {
				query     string
				wantNames []string
				wantTotal int64
			}{
				{"", []string{"Ada", "Alan", "Emmy", "Grace"}, 4},
				{"active=true", []string{"Ada", "Alan", "Emmy"}, 3},
				{"age[gte]=40&sort=-age", []string{"Grace", "Alan"}, 2},
				{"search=AL", []string{"Alan"}, 1},
				{"limit=2&page=2", []string{"Emmy", "Grace"}, 4},
				{"limit=2&page=3", []string{}, 4},
				{"sort=age", []string{"Emmy", "Ada", "Alan", "Grace"}, 4},
			}
			for _, tt := range tests {
				docs, total := find(t, c, tt.query)
				got := names(docs)
				if len(got) != len(tt.wantNames) {
					t.Errorf("Find(%q) = %v, want %v", tt.query, got, tt.wantNames)
					continue
				}
				for i := range got {
					if got[i] != tt.wantNames[i] {
						t.Errorf("Find(%q) = %v, want %v", tt.query, got, tt.wantNames)
						break
					}
				}
				if total != tt.wantTotal {
					t.Errorf("Count(%q) = %d, want %d", tt.query, total, tt.wantTotal)
				}
			}
		})
	}
}

func TestFindStripsHiddenFields(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := st.Collection("people")
			seed(t, c)

			docs, _ := find(t, c, "")
			for _, d := range docs {
				if _, ok := d["password"]; ok {
					t.Errorf("Find() leaked password for %s", d.String("name"))
				}
			}

			docs, _ = find(t, c, "fields=name")
			for _, d := range docs {
				if len(d) != 2 || d.ID() == "" || d.String("name") == "" {
					t.Errorf("projected doc = %v, want only id and name", d)
				}
			}
		})
	}
}

func TestUniqueFields(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := st.Collection("people")
			people := seed(t, c)
			ctx := context.Background()

			_, err := c.Insert(ctx, Document{"name": "Ada 2", "email": "ada@example.com"})
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("Insert(duplicate email) error = %v, want ErrDuplicate", err)
			}

			_, err = c.Update(ctx, people["Alan"].ID(), Document{"email": "ada@example.com"})
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("Update(duplicate email) error = %v, want ErrDuplicate", err)
			}

			if _, err := c.Update(ctx, people["Ada"].ID(), Document{"email": "lovelace@example.com"}); err != nil {
				t.Fatalf("Update(new email) error = %v", err)
			}
			if _, err := c.Insert(ctx, Document{"name": "Ada 2", "email": "ada@example.com"}); err != nil {
				t.Errorf("Insert(released email) error = %v", err)
			}
		})
	}
}

func TestUpdateIncrementDelete(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := st.Collection("people")
			people := seed(t, c)
			ctx := context.Background()
			ada := people["Ada"]

			updated, err := c.Update(ctx, ada.ID(), Document{"age": 37, "active": nil, "id": "other"})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if updated.Float("age") != 37 {
				t.Errorf("age = %v, want 37", updated["age"])
			}
			if _, ok := updated["active"]; ok {
				t.Error("nil patch value did not remove the field")
			}
			if updated.ID() != ada.ID() {
				t.Errorf("id changed to %q", updated.ID())
			}
			if updated.String(query.FieldCreatedAt) != ada.String(query.FieldCreatedAt) {
				t.Error("createdAt changed on update")
			}

			emmy, err := c.Increment(ctx, people["Emmy"].ID(), "views", 1)
			if err != nil {
				t.Fatalf("Increment() error = %v", err)
			}
			emmy, _ = c.Increment(ctx, emmy.ID(), "views", 2)
			if emmy.Float("views") != 3 {
				t.Errorf("views = %v, want 3", emmy["views"])
			}

			if err := c.Delete(ctx, ada.ID()); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := c.Get(ctx, ada.ID()); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
			}
			if err := c.Delete(ctx, ada.ID()); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
			}
			if _, err := c.Update(ctx, ada.ID(), Document{"age": 1}); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update(deleted) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFindOne(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := st.Collection("people")
			people := seed(t, c)
			ctx := context.Background()

			doc, err := c.FindOne(ctx, query.Where(query.Eq("email", query.String, "grace@example.com")))
			if err != nil {
				t.Fatalf("FindOne() error = %v", err)
			}
			if doc.ID() != people["Grace"].ID() {
				t.Errorf("FindOne() = %v, want Grace", doc.String("name"))
			}
			if doc.String("password") != "h3" {
				t.Error("FindOne() should return internal fields")
			}

			_, err = c.FindOne(ctx, query.Where(query.Eq("email", query.String, "nobody@example.com")))
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("FindOne(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestCanceledContext(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if _, err := st.Collection("people").Insert(ctx, Document{"name": "x"}); !errors.Is(err, context.Canceled) {
				t.Errorf("Insert(canceled) error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, st.Collection("people"))
			n, err := st.Collection("others").Count(context.Background(), query.Criteria{})
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != 0 {
				t.Errorf("Count(others) = %d, want 0", n)
			}
		})
	}
}
