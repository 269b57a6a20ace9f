// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biographer/internal/query"
)

// Document is a JSON-normalized record: numbers are float64, times are
// RFC 3339 strings, arrays are []any, objects are map[string]any.
type Document map[string]any

// Normalize converts any JSON-encodable value (typically a struct) to a
// Document.
func Normalize(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a stored JSON object.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Decode fills v (a pointer to a struct) from the document.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// ID returns the document id.
func (d Document) ID() string {
	return d.String(query.FieldID)
}

// String returns a string field or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns a boolean field or false.
func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Float returns a numeric field or 0.
func (d Document) Float(key string) float64 {
	switch n := d[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Time returns a timestamp field.
func (d Document) Time(key string) (time.Time, bool) {
	switch v := d[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}

// Strings returns a string-array field.
func (d Document) Strings(key string) []string {
	switch l := d[key].(type) {
	case []string:
		return append([]string(nil), l...)
	case []any:
		out := make([]string, 0, len(l))
		for _, v := range l {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case Document:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Map exposes the document to the query evaluator.
func (d Document) Map() map[string]any {
	return d
}
