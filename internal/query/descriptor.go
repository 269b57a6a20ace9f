// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import "math"

// Operator is a filter comparison.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
)

// rangeOperators are the only suffixes accepted in field[op]=value parameters.
var rangeOperators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Condition is one field comparison. Value is already coerced to the field
// kind: string, float64, bool or time.Time.
type Condition struct {
	Field string
	Kind  Kind
	Op    Operator
	Value any
}

// TextSearch is a case-insensitive substring match of Term against any of
// Fields.
type TextSearch struct {
	Term   string
	Fields []Field
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Kind  Kind
	Desc  bool
}

// ProjectionMode selects how Projection.Fields is interpreted.
type ProjectionMode int

const (
	// ProjectAll returns every public field.
	ProjectAll ProjectionMode = iota
	// ProjectInclude returns only the listed fields plus id.
	ProjectInclude
	// ProjectExclude returns every public field except the listed ones.
	ProjectExclude
)

// Projection shapes each returned document. Hidden fields are always removed.
type Projection struct {
	mode   ProjectionMode
	fields []string
	hidden []string
}

// Mode returns the projection mode.
func (p Projection) Mode() ProjectionMode { return p.mode }

// Fields returns the included or excluded field names.
func (p Projection) Fields() []string { return append([]string(nil), p.fields...) }

// Criteria is the filter set of a request: field conditions ANDed together,
// plus an optional text search. It is shared by the page query and the count
// query so the two can never disagree.
type Criteria struct {
	conditions []Condition
	search     *TextSearch
}

// Conditions returns a copy of the field conditions.
func (c Criteria) Conditions() []Condition {
	return append([]Condition(nil), c.conditions...)
}

// Search returns the text search clause, if any.
func (c Criteria) Search() (TextSearch, bool) {
	if c.search == nil {
		return TextSearch{}, false
	}
	return TextSearch{Term: c.search.Term, Fields: append([]Field(nil), c.search.Fields...)}, true
}

// IsEmpty reports whether the criteria match every document.
func (c Criteria) IsEmpty() bool {
	return len(c.conditions) == 0 && c.search == nil
}

// And returns new criteria with an extra condition appended. Handlers use it
// to scope public listings (published=true) without touching the request.
func (c Criteria) And(cond Condition) Criteria {
	out := Criteria{
		conditions: make([]Condition, 0, len(c.conditions)+1),
		search:     c.search,
	}
	out.conditions = append(out.conditions, c.conditions...)
	out.conditions = append(out.conditions, cond)
	return out
}

// Where builds criteria from explicit conditions, for internal lookups that
// do not come from request parameters.
func Where(conds ...Condition) Criteria {
	return Criteria{conditions: append([]Condition(nil), conds...)}
}

// Eq is shorthand for an equality condition.
func Eq(field string, kind Kind, value any) Condition {
	return Condition{Field: field, Kind: kind, Op: OpEq, Value: value}
}

// Descriptor is a validated, immutable list query.
type Descriptor struct {
	criteria   Criteria
	sort       []SortKey
	projection Projection
	page       int
	limit      int
}

// NewDescriptor builds a descriptor directly, for internal listings such as
// featured biographies. Page and limit below 1 are raised to 1.
func NewDescriptor(c Criteria, sort []SortKey, page, limit int) *Descriptor {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	page = min(page, maxPage(limit))
	return &Descriptor{
		criteria: c,
		sort:     withTieBreaker(append([]SortKey(nil), sort...)),
		page:     page,
		limit:    limit,
	}
}

// Criteria returns the filter set.
func (d *Descriptor) Criteria() Criteria { return d.criteria }

// Count returns the count descriptor: the identical filter set with no
// pagination, sort or projection.
func (d *Descriptor) Count() Criteria { return d.criteria }

// Sort returns the sort keys, always ending with an id tie-breaker.
func (d *Descriptor) Sort() []SortKey { return append([]SortKey(nil), d.sort...) }

// Projection returns the field projection.
func (d *Descriptor) Projection() Projection { return d.projection }

// Page returns the 1-based page number.
func (d *Descriptor) Page() int { return d.page }

// Limit returns the page size.
func (d *Descriptor) Limit() int { return d.limit }

// Skip returns the number of documents before the page: (page-1)*limit.
// It saturates at math.MaxInt and is never negative.
func (d *Descriptor) Skip() int {
	if d.page <= 1 || d.limit < 1 {
		return 0
	}
	if d.page-1 > math.MaxInt/d.limit {
		return math.MaxInt
	}
	return (d.page - 1) * d.limit
}

// maxPage is the largest page whose skip fits in an int.
func maxPage(limit int) int {
	if limit < 1 {
		return math.MaxInt
	}
	return math.MaxInt / limit
}

// WithCriteria returns a copy of d with its filter set replaced.
func (d *Descriptor) WithCriteria(c Criteria) *Descriptor {
	out := *d
	out.criteria = c
	return &out
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// withTieBreaker appends an id key in the direction of the last key so that
// ordering is total and reversing every key reverses the result exactly.
func withTieBreaker(keys []SortKey) []SortKey {
	for _, k := range keys {
		if k.Field == FieldID {
			return keys
		}
	}
	desc := false
	if len(keys) > 0 {
		desc = keys[len(keys)-1].Desc
	}
	return append(keys, SortKey{Field: FieldID, Kind: ID, Desc: desc})
}

// WithProjection returns a copy of d with its projection replaced.
func (d *Descriptor) WithProjection(p Projection) *Descriptor {
	out := *d
	out.projection = p
	return &out
}
