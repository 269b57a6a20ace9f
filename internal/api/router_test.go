// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/eventprocessor"
)

func TestBiographyLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)
	_, userToken := s.seedUser("reader@example.com", auth.RoleUser)

	rec := s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Marie Curie"), adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bio := dataField(t, rec, "biography").(map[string]any)
	assert.Equal(t, "marie-curie", bio["slug"])
	assert.Equal(t, "published", bio["status"])

	s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Ada Lovelace"), adminToken)

	rec = s.do(http.MethodGet, "/api/v1/biographies?search=curie", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["results"])
	assert.Equal(t, float64(1), body["total"])

	rec = s.do(http.MethodDelete, "/api/v1/biographies/marie-curie", nil, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/biographies/marie-curie", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/biographies/marie-curie", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBiographyRejectsUnknownFilter(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/biographies?password=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftBiographyVisibleToAdminsOnly(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)

	body := biographyBody("Unfinished")
	body["status"] = "draft"
	rec := s.do(http.MethodPost, "/api/v1/biographies", body, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/biographies/unfinished", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/biographies/unfinished", nil, adminToken).Code)

	rec = s.do(http.MethodGet, "/api/v1/biographies", nil, "")
	assert.Equal(t, float64(0), decodeBody(t, rec)["total"])
}

func TestGetBiographyCountsViews(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)
	s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Alan Turing"), adminToken)

	s.do(http.MethodGet, "/api/v1/biographies/alan-turing", nil, "")
	rec := s.do(http.MethodGet, "/api/v1/biographies/alan-turing", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	bio := dataField(t, rec, "biography").(map[string]any)
	assert.Equal(t, float64(2), bio["views"])
}

func TestLikeTogglesMembership(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)
	_, userToken := s.seedUser("reader@example.com", auth.RoleUser)
	s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Grace Hopper"), adminToken)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPatch, "/api/v1/biographies/grace-hopper/like", nil, "").Code)

	rec := s.do(http.MethodPatch, "/api/v1/biographies/grace-hopper/like", nil, userToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, dataField(t, rec, "active"))
	assert.Equal(t, float64(1), dataField(t, rec, "count"))

	rec = s.do(http.MethodPatch, "/api/v1/biographies/grace-hopper/like", nil, userToken)
	assert.Equal(t, false, dataField(t, rec, "active"))
	assert.Equal(t, float64(0), dataField(t, rec, "count"))

	rec = s.do(http.MethodPost, "/api/v1/biographies/grace-hopper/comment", map[string]any{"content": "Great read"}, userToken)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestResponseCacheHitAndInvalidation(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)
	s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Rosalind Franklin"), adminToken)

	first := s.do(http.MethodGet, "/api/v1/biographies", nil, "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := s.do(http.MethodGet, "/api/v1/biographies", nil, "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, true, decodeBody(t, second)["fromCache"])
	assert.Equal(t, float64(1), decodeBody(t, second)["total"])

	rec := s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Lise Meitner"), adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	third := s.do(http.MethodGet, "/api/v1/biographies", nil, "")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, float64(2), decodeBody(t, third)["total"])
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]any{"email": "nobody@example.com", "password": "wrong-password"}

	for i := 0; i < authLimit; i++ {
		rec := s.do(http.MethodPost, "/api/v1/auth/login", creds, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := s.do(http.MethodPost, "/api/v1/auth/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "Too many login attempts", decodeBody(t, rec)["message"])
}

func TestActivityRecordedForAdminWrites(t *testing.T) {
	s := newTestServer(t)
	adminID, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)

	s.do(http.MethodPost, "/api/v1/biographies", biographyBody("Emmy Noether"), adminToken)
	s.do(http.MethodPatch, "/api/v1/biographies/emmy-noether", map[string]any{"featured": false}, adminToken)
	s.do(http.MethodGet, "/api/v1/biographies/emmy-noether", nil, adminToken)

	events := s.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, eventprocessor.ActionCreate, events[0].Action)
	assert.Equal(t, CollectionBiographies, events[0].Resource)
	assert.Equal(t, adminID, events[0].ActorID)
	assert.Equal(t, eventprocessor.ActionUpdate, events[1].Action)
	assert.Equal(t, "emmy-noether", events[1].ResourceID)
	assert.Equal(t, http.StatusOK, events[1].Status)
}

func TestCategoryTreeAndDeleteGuard(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)

	rec := s.do(http.MethodPost, "/api/v1/categories", map[string]any{"name": "Science"}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	parentID := dataField(t, rec, "category").(map[string]any)["id"].(string)

	rec = s.do(http.MethodPost, "/api/v1/categories", map[string]any{"name": "Physics", "parent": parentID}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/categories/tree", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	roots := dataField(t, rec, "categories").([]any)
	require.Len(t, roots, 1)
	children := roots[0].(map[string]any)["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "physics", children[0].(map[string]any)["slug"])

	body := biographyBody("Niels Bohr")
	body["category"] = parentID
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/biographies", body, adminToken).Code)

	rec = s.do(http.MethodDelete, "/api/v1/categories/"+parentID, nil, adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/categories/science", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), dataField(t, rec, "category").(map[string]any)["biographyCount"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Can't find /api/v1/nothing-here on this server!", decodeBody(t, rec)["message"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", dataField(t, rec, "status"))
	assert.Equal(t, "memory", dataField(t, rec, "cache"))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/ready", nil, "").Code)
}
