// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

func TestFromClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   Kind
	}{
		{"api error passes through", Forbidden("no"), http.StatusForbidden, KindForbidden},
		{"wrapped api error", fmt.Errorf("ctx: %w", Conflict("dup")), http.StatusConflict, KindConflict},
		{"query error", &query.Error{Param: "sort", Reason: "unknown sort field"}, http.StatusBadRequest, KindInvalidQuery},
		{"auth failure", auth.ErrInvalidToken, http.StatusUnauthorized, KindUnauthenticated},
		{"missing document", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, KindNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict, KindConflict},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, KindFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := From(tt.err)
			if e.Status != tt.status || e.Kind != tt.kind {
				t.Errorf("From(%v) = %d %s, want %d %s", tt.err, e.Status, e.Kind, tt.status, tt.kind)
			}
		})
	}
}

func TestFailHidesFaultCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/biographies", nil)

	Fail(rec, req, errors.New("connection refused to 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("fault cause leaked: %s", rec.Body.String())
	}

	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env["status"] != StatusError || env["message"] != genericFault {
		t.Errorf("envelope = %v", env)
	}
}

func TestFailUsesFailStatusFor4xx(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Fail(rec, req, Validation("bad input", map[string]string{"email": "required"}))

	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Code != http.StatusBadRequest || env["status"] != StatusFail {
		t.Errorf("got %d %v", rec.Code, env["status"])
	}
	details, _ := env["errors"].(map[string]any)
	if details["email"] != "required" {
		t.Errorf("errors = %v", env["errors"])
	}
}

func TestListPagination(t *testing.T) {
	d := query.NewDescriptor(query.Where(), nil, 2, 10)
	docs := []store.Document{{"id": "a"}, {"id": "b"}}

	env := List("biographies", docs, 12, d)

	if *env.Results != 2 || *env.Total != 12 {
		t.Errorf("results/total = %d/%d", *env.Results, *env.Total)
	}
	want := Pagination{Total: 12, Page: 2, Pages: 2, Limit: 10}
	if *env.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", *env.Pagination, want)
	}
}

func TestListNeverRendersNull(t *testing.T) {
	d := query.NewDescriptor(query.Where(), nil, 1, 10)
	env := List[store.Document]("faqs", nil, 0, d)

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"faqs":[]`) {
		t.Errorf("body = %s", data)
	}
}

func TestWithTokenCarriesToken(t *testing.T) {
	data, err := json.Marshal(WithToken("abc", Data{"user": map[string]any{"id": "1"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"token":"abc"`) {
		t.Errorf("body = %s", data)
	}
}
