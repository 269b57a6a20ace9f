// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Reserved parameter names. Every other parameter is a filter.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSort   = "sort"
	ParamFields = "fields"
	ParamSearch = "search"
)

var reserved = map[string]bool{
	ParamPage:   true,
	ParamLimit:  true,
	ParamSort:   true,
	ParamFields: true,
	ParamSearch: true,
}

// Parse validates params against the schema and builds a Descriptor.
// Any unknown or disallowed field in a filter, sort or projection yields an
// *Error wrapping ErrInvalidQuery; nothing is executed in that case.
func Parse(s *Schema, params url.Values) (*Descriptor, error) {
	criteria, err := s.parseCriteria(params)
	if err != nil {
		return nil, err
	}

	sortKeys := s.defaultSort
	if raw := joined(params, ParamSort); raw != "" {
		keys, err := s.parseSort(raw)
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			sortKeys = keys
		}
	}

	projection, err := s.parseProjection(joined(params, ParamFields))
	if err != nil {
		return nil, err
	}

	page, limit := s.parsePagination(params)

	return &Descriptor{
		criteria:   criteria,
		sort:       withTieBreaker(append([]SortKey(nil), sortKeys...)),
		projection: projection,
		page:       page,
		limit:      limit,
	}, nil
}

// parseCriteria builds the filter set from every non-reserved parameter plus
// the search term.
func (s *Schema) parseCriteria(params url.Values) (Criteria, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var c Criteria
	for _, key := range keys {
		name, op, err := splitOperator(key)
		if err != nil {
			return Criteria{}, err
		}
		field, ok := s.fields[name]
		if !ok || !field.Can(Filter) || s.isHidden(name) {
			return Criteria{}, invalid(key, "unknown filter field %q", name)
		}
		if op != OpEq && !field.Kind.supportsRange() {
			return Criteria{}, invalid(key, "operator %s is not supported for %s fields", op, field.Kind)
		}
		for _, raw := range params[key] {
			if raw == "" {
				continue
			}
			value, err := coerce(field.Kind, raw)
			if err != nil {
				return Criteria{}, invalid(key, "%v", err)
			}
			c.conditions = append(c.conditions, Condition{Field: name, Kind: field.Kind, Op: op, Value: value})
		}
	}

	if term := strings.TrimSpace(params.Get(ParamSearch)); term != "" {
		if fields := s.searchFields(); len(fields) > 0 {
			c.search = &TextSearch{Term: term, Fields: fields}
		}
	}
	return c, nil
}

// splitOperator splits "price[gte]" into ("price", OpGte).
func splitOperator(key string) (string, Operator, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", invalid(key, "malformed operator syntax")
	}
	op, ok := rangeOperators[key[open+1:len(key)-1]]
	if !ok {
		return "", "", invalid(key, "unsupported operator %q", key[open+1:len(key)-1])
	}
	return key[:open], op, nil
}

// coerce converts a raw parameter to the field kind's Go type.
func coerce(kind Kind, raw string) (any, error) {
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalidValue(kind, raw)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalidValue(kind, raw)
		}
		return b, nil
	case Time:
		return parseTime(raw)
	default:
		return raw, nil
	}
}

type valueError struct {
	kind Kind
	raw  string
}

func (e valueError) Error() string {
	return strconv.Quote(e.raw) + " is not a valid " + e.kind.String()
}

func invalidValue(kind Kind, raw string) error {
	return valueError{kind: kind, raw: raw}
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, invalidValue(Time, raw)
}

// parseSort parses "a,-b" into sort keys.
func (s *Schema) parseSort(raw string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		field, ok := s.fields[name]
		if !ok || !field.Can(Sort) || s.isHidden(name) {
			return nil, invalid(ParamSort, "unknown sort field %q", name)
		}
		keys = append(keys, SortKey{Field: name, Kind: field.Kind, Desc: desc})
	}
	return keys, nil
}

// parseProjection parses "a,b" (include) or "-a,-b" (exclude).
func (s *Schema) parseProjection(raw string) (Projection, error) {
	p := Projection{mode: ProjectAll, hidden: s.Hidden()}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mode := ProjectInclude
		if strings.HasPrefix(part, "-") {
			mode = ProjectExclude
			part = part[1:]
		}
		if p.mode != ProjectAll && p.mode != mode {
			return Projection{}, invalid(ParamFields, "cannot mix included and excluded fields")
		}
		field, ok := s.fields[part]
		if !ok || !field.Can(Project) || s.isHidden(part) {
			return Projection{}, invalid(ParamFields, "unknown field %q", part)
		}
		p.mode = mode
		p.fields = append(p.fields, part)
	}
	if p.mode == ProjectInclude && !contains(p.fields, FieldID) {
		p.fields = append(p.fields, FieldID)
	}
	return p, nil
}

// parsePagination applies defaults for absent, non-numeric or non-positive
// values, clamps limit to the schema maximum and page to the largest page
// whose skip fits in an int.
func (s *Schema) parsePagination(params url.Values) (page, limit int) {
	page = 1
	if n, err := strconv.Atoi(params.Get(ParamPage)); err == nil && n > 0 {
		page = n
	}
	limit = s.defaultLimit
	if n, err := strconv.Atoi(params.Get(ParamLimit)); err == nil && n > 0 {
		limit = n
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return min(page, maxPage(limit)), limit
}

// joined merges repeated comma-list parameters (sort=a&sort=b).
func joined(params url.Values, key string) string {
	return strings.Join(params[key], ",")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
