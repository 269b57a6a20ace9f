// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"reflect"
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	where, args := NewWhereBuilder().Build()
	if where != "1=1" {
		t.Errorf("Build() = %q, want %q", where, "1=1")
	}
	if len(args) != 0 {
		t.Errorf("len(args) = %d, want 0", len(args))
	}
}

func TestWhereBuilder_Conditions(t *testing.T) {
	when := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cond     Condition
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "string equality",
			cond:     Eq("title", String, "Ada"),
			wantSQL:  "doc->>'title' = $1",
			wantArgs: []any{"Ada"},
		},
		{
			name:     "number range",
			cond:     Condition{Field: "views", Kind: Number, Op: OpGte, Value: float64(10)},
			wantSQL:  "(doc->>'views')::numeric >= $1",
			wantArgs: []any{float64(10)},
		},
		{
			name:     "bool equality",
			cond:     Eq("featured", Bool, true),
			wantSQL:  "(doc->>'featured')::boolean = $1",
			wantArgs: []any{true},
		},
		{
			name:     "time range",
			cond:     Condition{Field: "birthDate", Kind: Time, Op: OpLt, Value: when},
			wantSQL:  "(doc->>'birthDate')::timestamptz < $1",
			wantArgs: []any{when},
		},
		{
			name:     "list contains",
			cond:     Eq("tags", StringList, "poet"),
			wantSQL:  "doc->'tags' @> jsonb_build_array($1::text)",
			wantArgs: []any{"poet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := NewWhereBuilder().AddCondition(tt.cond).Build()
			if where != tt.wantSQL {
				t.Errorf("Build() = %q, want %q", where, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_CriteriaNumbering(t *testing.T) {
	c := Where(
		Eq("featured", Bool, true),
		Condition{Field: "views", Kind: Number, Op: OpLt, Value: float64(5)},
	)

	wb := NewWhereBuilder().StartAt(2)
	wb.AddCriteria(c)
	where, args := wb.Build()

	want := "(doc->>'featured')::boolean = $2 AND (doc->>'views')::numeric < $3"
	if where != want {
		t.Errorf("Build() = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
}

func TestWhereBuilder_Search(t *testing.T) {
	ts := TextSearch{Term: "50%_off", Fields: []Field{
		{Name: "title", Kind: String},
		{Name: "tags", Kind: StringList},
	}}

	where, args := NewWhereBuilder().AddSearch(ts).Build()

	want := "(doc->>'title' ILIKE $1 OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(" +
		"CASE WHEN jsonb_typeof(doc->'tags') = 'array' THEN doc->'tags' ELSE '[]'::jsonb END) AS e(v) WHERE e.v ILIKE $2))"
	if where != want {
		t.Errorf("Build() =\n%s\nwant\n%s", where, want)
	}
	wantArgs := []any{`%50\%\_off%`, `%50\%\_off%`}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestOrderBy(t *testing.T) {
	keys := []SortKey{
		{Field: "views", Kind: Number, Desc: true},
		{Field: "title", Kind: String},
		{Field: FieldID, Kind: ID},
	}
	want := `(doc->>'views')::numeric DESC NULLS LAST, doc->>'title' COLLATE "C" ASC NULLS FIRST, doc->>'id' COLLATE "C" ASC NULLS FIRST`
	if got := OrderBy(keys); got != want {
		t.Errorf("OrderBy() =\n%s\nwant\n%s", got, want)
	}
}

func TestRebindSkipsQuotedLiterals(t *testing.T) {
	got := rebind("a = ? AND b = '?' AND c = ?", 0)
	want := "a = $1 AND b = '?' AND c = $2"
	if got != want {
		t.Errorf("rebind() = %q, want %q", got, want)
	}
}

func TestQuoteField(t *testing.T) {
	if got := quoteField("o'brien"); got != "'o''brien'" {
		t.Errorf("quoteField() = %q, want %q", got, "'o''brien'")
	}
}
