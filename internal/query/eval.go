// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"sort"
	"strings"
	"time"
)

// In-process evaluation works on JSON-normalized documents: numbers are
// float64, times are RFC 3339 strings, lists are []any.

// Match reports whether doc satisfies every condition and the search term.
func Match(c Criteria, doc map[string]any) bool {
	for _, cond := range c.conditions {
		if !matchCondition(cond, doc[cond.Field]) {
			return false
		}
	}
	if c.search != nil && !matchSearch(c.search, doc) {
		return false
	}
	return true
}

func matchCondition(cond Condition, v any) bool {
	if v == nil {
		return false
	}
	if cond.Kind == StringList {
		want, _ := cond.Value.(string)
		for _, item := range listValues(v) {
			if item == want {
				return true
			}
		}
		return false
	}
	cmp, ok := compare(cond.Kind, v, cond.Value)
	if !ok {
		return false
	}
	switch cond.Op {
	case OpEq:
		return cmp == 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	default:
		return false
	}
}

func matchSearch(ts *TextSearch, doc map[string]any) bool {
	term := strings.ToLower(ts.Term)
	for _, f := range ts.Fields {
		switch v := doc[f.Name].(type) {
		case string:
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		case []any, []string:
			for _, item := range listValues(v) {
				if strings.Contains(strings.ToLower(item), term) {
					return true
				}
			}
		}
	}
	return false
}

// compare returns -1, 0 or 1 comparing a to b as kind. ok is false when
// either value cannot be read as that kind.
func compare(kind Kind, a, b any) (int, bool) {
	switch kind {
	case Number:
		x, ok1 := toFloat(a)
		y, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case Bool:
		x, ok1 := a.(bool)
		y, ok2 := b.(bool)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case Time:
		x, ok1 := toTime(a)
		y, ok2 := toTime(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		return x.Compare(y), true
	default:
		x, ok1 := a.(string)
		y, ok2 := b.(string)
		if !ok1 || !ok2 {
			return 0, false
		}
		return strings.Compare(x, y), true
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := parseTime(t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func listValues(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SortDocuments orders docs in place by keys. Missing or unreadable values
// sort before present ones in ascending order and after them in descending
// order, matching NULLS FIRST / NULLS LAST in the SQL path.
func SortDocuments(docs []map[string]any, keys []SortKey) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareForSort(k, docs[i][k.Field], docs[j][k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareForSort(k SortKey, a, b any) int {
	kind := k.Kind
	if kind == StringList {
		kind = String
		a, b = firstOf(a), firstOf(b)
	}
	aNil, bNil := a == nil, b == nil
	if !aNil {
		if _, ok := compare(kind, a, a); !ok {
			aNil = true
		}
	}
	if !bNil {
		if _, ok := compare(kind, b, b); !ok {
			bNil = true
		}
	}
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}
	c, _ := compare(kind, a, b)
	return c
}

func firstOf(v any) any {
	if l := listValues(v); len(l) > 0 {
		return l[0]
	}
	return nil
}

// Apply returns a shallow copy of doc shaped by the projection. Hidden fields
// are always removed.
func (p Projection) Apply(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	switch p.mode {
	case ProjectInclude:
		for _, f := range p.fields {
			if v, ok := doc[f]; ok {
				out[f] = v
			}
		}
	default:
		for k, v := range doc {
			out[k] = v
		}
		if p.mode == ProjectExclude {
			for _, f := range p.fields {
				delete(out, f)
			}
		}
	}
	for _, h := range p.hidden {
		delete(out, h)
	}
	return out
}

// Window slices an already sorted result set to the requested page.
func (d *Descriptor) Window(docs []map[string]any) []map[string]any {
	start := d.Skip()
	if start < 0 || start >= len(docs) {
		return []map[string]any{}
	}
	end := len(docs)
	if d.limit < end-start {
		end = start + d.limit
	}
	return docs[start:end]
}
