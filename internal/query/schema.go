// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package query translates list request parameters into validated query
// descriptors.
//
// Every list endpoint shares one parameter surface:
//
//	page      1-based page number (default 1)
//	limit     page size (schema default, clamped to the schema maximum)
//	sort      comma-separated fields, "-" prefix means descending
//	fields    comma-separated projection ("a,b" include or "-a,-b" exclude)
//	search    free-text term matched case-insensitively across searchable fields
//	<field>   equality filter, or <field>[gt|gte|lt|lte] range filter
//
// What each resource allows is declared once in a Schema. The Engine rejects
// any parameter naming a field the schema does not allow for that use, so
// arbitrary filter keys never reach a data store.
//
// A Descriptor is evaluated either in process (Match, SortDocuments,
// Projection.Apply) by the memory and badger stores, or compiled to SQL
// (WhereBuilder, OrderBy) by the postgres store. Both paths read the same
// Criteria, which is also what Descriptor.Count returns.
package query

// Kind is the value type of a schema field. It drives parameter coercion,
// comparison, and SQL casts.
type Kind int

const (
	// String fields compare lexically.
	String Kind = iota
	// Number fields are parsed as float64.
	Number
	// Bool fields accept strconv.ParseBool values and only support equality.
	Bool
	// Time fields accept RFC 3339 timestamps or YYYY-MM-DD dates.
	Time
	// ID fields hold record identifiers and only support equality.
	ID
	// StringList fields hold string arrays; equality means "contains".
	StringList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Time:
		return "time"
	case ID:
		return "id"
	case StringList:
		return "list"
	default:
		return "unknown"
	}
}

// supportsRange reports whether gt/gte/lt/lte make sense for the kind.
func (k Kind) supportsRange() bool {
	return k == String || k == Number || k == Time
}

// Capability flags what a field may be used for in a request.
type Capability uint8

const (
	Filter Capability = 1 << iota
	Search
	Sort
	Project
)

// All grants every capability.
const All = Filter | Search | Sort | Project

// Field declares one document field.
type Field struct {
	Name string
	Kind Kind
	Caps Capability
}

// Can reports whether the field has capability c.
func (f Field) Can(c Capability) bool {
	return f.Caps&c != 0
}

// Schema declares what a resource's list endpoint accepts.
type Schema struct {
	// Resource is the envelope key for results, e.g. "biographies".
	Resource string

	fields       map[string]Field
	order        []string
	hidden       []string
	defaultSort  []SortKey
	defaultLimit int
	maxLimit     int
}

// Default pagination bounds used when a schema does not override them.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Standard fields present on every stored document.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// NewSchema builds a schema for resource. The id, createdAt and updatedAt
// fields are always declared; the default sort is creation time descending.
func NewSchema(resource string, fields ...Field) *Schema {
	s := &Schema{
		Resource:     resource,
		fields:       make(map[string]Field, len(fields)+3),
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
	}
	s.add(Field{Name: FieldID, Kind: ID, Caps: Filter | Sort | Project})
	s.add(Field{Name: FieldCreatedAt, Kind: Time, Caps: Filter | Sort | Project})
	s.add(Field{Name: FieldUpdatedAt, Kind: Time, Caps: Filter | Sort | Project})
	for _, f := range fields {
		s.add(f)
	}
	s.defaultSort = []SortKey{{Field: FieldCreatedAt, Kind: Time, Desc: true}}
	return s
}

func (s *Schema) add(f Field) {
	if _, exists := s.fields[f.Name]; !exists {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
}

// WithHidden marks internal-only fields (password hashes, tokens). Hidden
// fields are stripped from every result and can never be requested.
func (s *Schema) WithHidden(names ...string) *Schema {
	s.hidden = append(s.hidden, names...)
	return s
}

// WithDefaultSort replaces the default sort, using the same syntax as the
// sort parameter ("-createdAt", "order,name").
func (s *Schema) WithDefaultSort(spec string) *Schema {
	keys, err := s.parseSort(spec)
	if err != nil {
		panic("query: invalid default sort for " + s.Resource + ": " + err.Error())
	}
	s.defaultSort = keys
	return s
}

// WithLimits overrides the default and maximum page size.
func (s *Schema) WithLimits(defaultLimit, maxLimit int) *Schema {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

// Field returns the declared field, if any.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Hidden returns the internal-only field names.
func (s *Schema) Hidden() []string {
	out := make([]string, len(s.hidden))
	copy(out, s.hidden)
	return out
}

func (s *Schema) isHidden(name string) bool {
	for _, h := range s.hidden {
		if h == name {
			return true
		}
	}
	return false
}

// searchFields returns the searchable, non-hidden fields in declaration order.
func (s *Schema) searchFields() []Field {
	var out []Field
	for _, name := range s.order {
		if f := s.fields[name]; f.Can(Search) && !s.isHidden(name) {
			out = append(out, f)
		}
	}
	return out
}

// PublicProjection returns the projection that only strips hidden fields.
func (s *Schema) PublicProjection() Projection {
	return Projection{mode: ProjectAll, hidden: s.Hidden()}
}
