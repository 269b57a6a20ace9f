// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"math"
	"net/url"
	"reflect"
	"testing"
)

func sampleDocs() []map[string]any {
	return []map[string]any{
		{"id": "a", "title": "Ada Lovelace", "views": float64(120), "featured": true,
			"tags": []any{"math", "poet"}, "birthDate": "1815-12-10T00:00:00Z", "createdAt": "2024-01-01T00:00:00Z"},
		{"id": "b", "title": "Alan Turing", "views": float64(300), "featured": false,
			"tags": []any{"math"}, "birthDate": "1912-06-23T00:00:00Z", "createdAt": "2024-02-01T00:00:00Z"},
		{"id": "c", "title": "Grace Hopper", "views": float64(45), "featured": true,
			"tags": []any{"navy"}, "createdAt": "2024-02-01T00:00:00Z"},
		{"id": "d", "title": "Emily Dickinson", "featured": false,
			"tags": []any{"poet"}, "birthDate": "1830-12-10T00:00:00Z", "createdAt": "2023-06-01T00:00:00Z"},
	}
}

func ids(docs []map[string]any) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["id"].(string))
	}
	return out
}

func filter(t *testing.T, raw string) []string {
	t.Helper()
	d := mustParse(t, raw)
	var out []map[string]any
	for _, doc := range sampleDocs() {
		if Match(d.Criteria(), doc) {
			out = append(out, doc)
		}
	}
	SortDocuments(out, d.Sort())
	return ids(out)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"sort=id", []string{"a", "b", "c", "d"}},
		{"featured=true&sort=id", []string{"a", "c"}},
		{"views[gte]=100&sort=id", []string{"a", "b"}},
		{"views[gt]=45&views[lte]=300&sort=id", []string{"a", "b"}},
		{"views[lt]=100&sort=id", []string{"c"}},
		{"tags=poet&sort=id", []string{"a", "d"}},
		{"tags=poet&tags=math&sort=id", []string{"a"}},
		{"birthDate[lt]=1900-01-01&sort=id", []string{"a", "d"}},
		{"title=Alan%20Turing", []string{"b"}},
		{"search=LOVE", []string{"a"}},
		{"search=navy", []string{"c"}},
		{"search=zzz", []string{}},
		{"search=a%25", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := filter(t, tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSortDocuments(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		// Default sort: newest first, id descending on ties.
		{"", []string{"c", "b", "a", "d"}},
		{"sort=createdAt", []string{"d", "a", "b", "c"}},
		{"sort=-views", []string{"b", "a", "c", "d"}},
		{"sort=views", []string{"d", "c", "a", "b"}},
		{"sort=birthDate", []string{"c", "a", "d", "b"}},
		{"sort=title", []string{"a", "b", "d", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := filter(t, tt.query); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestReversedSortIsExactReverse(t *testing.T) {
	asc := filter(t, "sort=createdAt")
	desc := filter(t, "sort=-createdAt")
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %v is not the reverse of desc %v", asc, desc)
		}
	}
}

func TestProjectionApply(t *testing.T) {
	doc := map[string]any{"id": "a", "title": "Ada", "views": float64(1), "secret": "x"}

	tests := []struct {
		query string
		want  map[string]any
	}{
		{"", map[string]any{"id": "a", "title": "Ada", "views": float64(1)}},
		{"fields=title", map[string]any{"id": "a", "title": "Ada"}},
		{"fields=-views", map[string]any{"id": "a", "title": "Ada"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d := mustParse(t, tt.query)
			got := d.Projection().Apply(doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, ok := doc["secret"]; !ok {
		t.Error("Apply() mutated its input")
	}
}

func TestWindow(t *testing.T) {
	docs := sampleDocs()
	params := url.Values{"page": {"2"}, "limit": {"3"}}
	d, err := Parse(testSchema(), params)
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if got := d.Window(docs); len(got) != 1 || got[0]["id"] != "d" {
		t.Errorf("Window() = %v, want [d]", ids(got))
	}

	params.Set("page", "5")
	d, _ = Parse(testSchema(), params)
	if got := d.Window(docs); len(got) != 0 {
		t.Errorf("Window() past end = %v, want empty", ids(got))
	}
	params.Set("page", "922337203685477582")
	params.Set("limit", "10")
	d, _ = Parse(testSchema(), params)
	if d.Skip() < 0 {
		t.Fatalf("Skip() = %d, want >= 0", d.Skip())
	}
	if got := d.Window(docs); len(got) != 0 {
		t.Errorf("Window() for huge page = %v, want empty", ids(got))
	}

	d = NewDescriptor(Where(), nil, math.MaxInt, 3)
	if got := d.Window(docs); len(got) != 0 {
		t.Errorf("Window() for MaxInt page = %v, want empty", ids(got))
	}
}
