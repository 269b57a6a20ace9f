// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"strconv"
	"strings"
)

// WhereBuilder constructs a SQL WHERE clause over a JSONB "doc" column with
// parameterized arguments. Clauses are written with "?" placeholders and
// renumbered to PostgreSQL's $n form by Build.
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("collection = ?", "biographies")
//	wb.AddCriteria(desc.Criteria())
//	where, args := wb.Build()
//	// collection = $1 AND (doc->>'published')::boolean = $2
type WhereBuilder struct {
	clauses []string
	args    []any
	offset  int
}

// NewWhereBuilder creates an empty builder whose placeholders start at $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// StartAt shifts placeholder numbering so the first argument is $n. Use it
// when the WHERE clause follows other bound parameters.
func (wb *WhereBuilder) StartAt(n int) *WhereBuilder {
	if n > 0 {
		wb.offset = n - 1
	}
	return wb
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddCondition compiles one field comparison.
func (wb *WhereBuilder) AddCondition(c Condition) *WhereBuilder {
	if c.Kind == StringList {
		return wb.AddClause("doc->"+quoteField(c.Field)+" @> jsonb_build_array(?::text)", c.Value)
	}
	return wb.AddClause(column(c.Field, c.Kind)+" "+sqlOperator(c.Op)+" ?", c.Value)
}

// AddSearch compiles a text search: an ILIKE against each searchable field,
// ORed together. List fields match if any element matches.
func (wb *WhereBuilder) AddSearch(ts TextSearch) *WhereBuilder {
	if len(ts.Fields) == 0 {
		return wb
	}
	pattern := "%" + escapeLike(ts.Term) + "%"
	parts := make([]string, 0, len(ts.Fields))
	for _, f := range ts.Fields {
		if f.Kind == StringList {
			parts = append(parts, "EXISTS (SELECT 1 FROM jsonb_array_elements_text("+
				"CASE WHEN jsonb_typeof(doc->"+quoteField(f.Name)+") = 'array' THEN doc->"+quoteField(f.Name)+
				" ELSE '[]'::jsonb END) AS e(v) WHERE e.v ILIKE ?)")
		} else {
			parts = append(parts, "doc->>"+quoteField(f.Name)+" ILIKE ?")
		}
		wb.args = append(wb.args, pattern)
	}
	wb.clauses = append(wb.clauses, "("+strings.Join(parts, " OR ")+")")
	return wb
}

// AddCriteria compiles every condition and the search term.
func (wb *WhereBuilder) AddCriteria(c Criteria) *WhereBuilder {
	for _, cond := range c.conditions {
		wb.AddCondition(cond)
	}
	if c.search != nil {
		wb.AddSearch(*c.search)
	}
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return rebind(strings.Join(wb.clauses, " AND "), wb.offset), wb.args
}

// OrderBy compiles sort keys into an ORDER BY list (without the keyword).
// Missing values sort first ascending and last descending, and text compares
// bytewise, so results agree with SortDocuments.
func OrderBy(keys []SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		expr := column(k.Field, k.Kind)
		switch k.Kind {
		case String, ID:
			expr += ` COLLATE "C"`
		case StringList:
			expr = "doc->" + quoteField(k.Field) + `->>0 COLLATE "C"`
		}
		if k.Desc {
			parts = append(parts, expr+" DESC NULLS LAST")
		} else {
			parts = append(parts, expr+" ASC NULLS FIRST")
		}
	}
	return strings.Join(parts, ", ")
}

// column returns the typed expression for a document field.
func column(field string, kind Kind) string {
	expr := "doc->>" + quoteField(field)
	switch kind {
	case Number:
		return "(" + expr + ")::numeric"
	case Bool:
		return "(" + expr + ")::boolean"
	case Time:
		return "(" + expr + ")::timestamptz"
	default:
		return expr
	}
}

func sqlOperator(op Operator) string {
	switch op {
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	default:
		return "="
	}
}

// quoteField renders a field name as a SQL string literal. Names come from
// schemas, never from requests, but quotes are still doubled.
func quoteField(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// rebind rewrites "?" placeholders to $n, skipping quoted literals.
func rebind(sql string, offset int) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := offset
	inQuote := false
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
