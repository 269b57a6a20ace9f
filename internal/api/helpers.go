// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
	"github.com/tomtom215/biographer/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// defaultQueryTimeout applies when Server.QueryTimeout is unset.
const defaultQueryTimeout = 10 * time.Second

// decode reads a JSON body into dst and validates it. Unknown fields are
// ignored, so only what dst declares can ever reach the store.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return response.Validation("Request body too large", nil)
		case errors.Is(err, io.EOF):
			return response.Validation("Request body is required", nil)
		default:
			return response.Validation("Invalid JSON body", nil)
		}
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// queryContext bounds store calls made for r.
func (h *Handler) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.config.Server.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

// list runs a parsed list query with its count and writes the paginated
// envelope.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, coll store.Collection, schema *query.Schema, forced ...query.Condition) {
	d, err := query.Parse(schema, r.URL.Query())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	crit := d.Criteria()
	for _, c := range forced {
		crit = crit.And(c)
	}
	d = d.WithCriteria(crit)

	ctx, cancel := h.queryContext(r)
	defer cancel()

	docs, err := coll.Find(ctx, d)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	total, err := coll.Count(ctx, d.Count())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.List(schema.Resource, docs, total, d))
}

// findAll loads every document matching c, a page at a time, with hidden
// fields stripped.
func findAll(ctx context.Context, coll store.Collection, schema *query.Schema, c query.Criteria, sort []query.SortKey) ([]store.Document, error) {
	const pageSize = 100

	var out []store.Document
	for page := 1; ; page++ {
		d := query.NewDescriptor(c, sort, page, pageSize).WithProjection(schema.PublicProjection())
		docs, err := coll.Find(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
		if len(docs) < pageSize {
			return out, nil
		}
	}
}

// public strips the schema's hidden fields from a single document.
func public(schema *query.Schema, doc store.Document) store.Document {
	return store.Document(schema.PublicProjection().Apply(doc))
}

// principal returns the caller attached by the access gate.
func principal(r *http.Request) *auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

// isAdmin reports whether the caller is an authenticated admin.
func isAdmin(r *http.Request) bool {
	p := principal(r)
	return p != nil && p.HasRole(auth.RoleAdmin)
}

// param returns a chi URL parameter.
func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// bySlug finds the document with slug.
func bySlug(ctx context.Context, coll store.Collection, slug string) (store.Document, error) {
	return coll.FindOne(ctx, query.Where(query.Eq("slug", query.String, slug)))
}

// notFound returns a 404 naming the resource.
func notFound(what string) error {
	return response.NotFound("No " + what + " found with that ID")
}
