// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/newsletter"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

// recentItems is the length of each "recent" list on the overview and the
// default length of the popular biographies list.
const recentItems = 5

// newUserWindow is how far back an account counts as new.
const newUserWindow = 7 * 24 * time.Hour

// overviewCount is one counter shown on the dashboard.
type overviewCount struct {
	group string
	name  string
	coll  store.Collection
	crit  query.Criteria
}

// DashboardOverview handles GET /dashboard/overview: per-resource counters
// plus the latest biographies, messages and activity.
func (h *Handler) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	counts := []overviewCount{
		{"users", "total", h.users, query.Where()},
		{"users", "active", h.users, query.Where(query.Eq(auth.FieldActive, query.Bool, true))},
		{"users", "admins", h.users, query.Where(query.Eq(auth.FieldRole, query.String, string(auth.RoleAdmin)))},
		{"biographies", "total", h.biographies, query.Where()},
		{"biographies", "published", h.biographies, query.Where(published())},
		{"biographies", "drafts", h.biographies, query.Where(query.Eq("status", query.String, models.BiographyDraft))},
		{"biographies", "featured", h.biographies, query.Where(featured())},
		{"categories", "total", h.categories, query.Where()},
		{"categories", "active", h.categories, query.Where(activeCategory())},
		{"contacts", "total", h.contacts, query.Where()},
		{"contacts", "pending", h.contacts, query.Where(query.Eq("status", query.String, models.ContactPending))},
		{"newsletter", "subscribers", h.subscribers, query.Where(query.Eq("status", query.String, newsletter.StatusSubscribed))},
		{"newsletter", "campaigns", h.campaigns, query.Where()},
	}

	var mu sync.Mutex
	overview := map[string]map[string]int64{}
	recent := map[string][]store.Document{}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			n, err := c.coll.Count(gctx, c.crit)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if overview[c.group] == nil {
				overview[c.group] = map[string]int64{}
			}
			overview[c.group][c.name] = n
			return nil
		})
	}

	newest := []query.SortKey{{Field: query.FieldCreatedAt, Kind: query.Time, Desc: true}}
	latest := map[string]struct {
		coll   store.Collection
		schema *query.Schema
		sort   []query.SortKey
	}{
		"biographies": {h.biographies, h.schemas.biographies, newest},
		"contacts":    {h.contacts, h.schemas.contacts, newest},
		"activities":  {h.activities, h.schemas.activities, []query.SortKey{{Field: "occurredAt", Kind: query.Time, Desc: true}}},
	}
	for name, l := range latest {
		g.Go(func() error {
			d := query.NewDescriptor(query.Where(), l.sort, 1, recentItems).WithProjection(l.schema.PublicProjection())
			docs, err := l.coll.Find(gctx, d)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			recent[name] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"overview": overview, "recent": recent}))
}

// ActivityLogs handles GET /dashboard/activity-logs.
func (h *Handler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.activities, h.schemas.activities)
}

// PopularBiographies handles GET /dashboard/popular-biographies: the most
// viewed biographies, newest first among equal views. limit defaults to 5
// and is capped at the maximum page size.
func (h *Handler) PopularBiographies(w http.ResponseWriter, r *http.Request) {
	limit := recentItems
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Fail(w, r, response.InvalidQuery("limit must be a positive integer"))
			return
		}
		limit = min(n, max(h.config.API.MaxPageSize, recentItems))
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	sort := []query.SortKey{
		{Field: "views", Kind: query.Number, Desc: true},
		{Field: query.FieldCreatedAt, Kind: query.Time, Desc: true},
	}
	d := query.NewDescriptor(query.Where(), sort, 1, limit).WithProjection(h.schemas.biographies.PublicProjection())
	docs, err := h.biographies.Find(ctx, d)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("biographies", docs))
}

// DashboardUserStats handles GET /dashboard/user-stats: total, active and
// recently registered accounts plus a count per role.
func (h *Handler) DashboardUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	since := store.Now().Add(-newUserWindow)
	counts := map[string]query.Criteria{
		"total":  query.Where(),
		"active": query.Where(query.Eq(auth.FieldActive, query.Bool, true)),
		"new": query.Where(query.Condition{
			Field: query.FieldCreatedAt, Kind: query.Time, Op: query.OpGte, Value: since,
		}),
	}
	roles := []auth.Role{auth.RoleUser, auth.RoleAdmin}

	var mu sync.Mutex
	stats := map[string]int64{}
	byRole := map[string]int64{}

	g, gctx := errgroup.WithContext(ctx)
	for name, crit := range counts {
		g.Go(func() error {
			n, err := h.users.Count(gctx, crit)
			mu.Lock()
			defer mu.Unlock()
			stats[name] = n
			return err
		})
	}
	for _, role := range roles {
		g.Go(func() error {
			n, err := h.users.Count(gctx, query.Where(query.Eq(auth.FieldRole, query.String, string(role))))
			mu.Lock()
			defer mu.Unlock()
			byRole[string(role)] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{
		"total":  stats["total"],
		"active": stats["active"],
		"new":    stats["new"],
		"byRole": byRole,
	}))
}
