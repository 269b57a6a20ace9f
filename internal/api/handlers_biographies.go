// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

const msgNoBiography = "No biography found with that slug"

// published restricts a query to published biographies.
func published() query.Condition {
	return query.Eq("status", query.String, models.BiographyPublished)
}

// featured restricts a query to featured documents.
func featured() query.Condition {
	return query.Eq("featured", query.Bool, true)
}

// biographyBySlug loads a biography, mapping a miss to a 404 naming the slug.
func (h *Handler) biographyBySlug(ctx context.Context, slug string) (store.Document, error) {
	doc, err := bySlug(ctx, h.biographies, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, response.NotFound(msgNoBiography)
	}
	return doc, err
}

// ListBiographies handles GET /biographies. Only published biographies are
// listed.
func (h *Handler) ListBiographies(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.biographies, h.schemas.biographies, published())
}

// FeaturedBiographies handles GET /biographies/featured.
func (h *Handler) FeaturedBiographies(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.biographies, h.schemas.biographies, published(), featured())
}

// BiographyOfTheDay handles GET /biographies/biography-of-the-day and
// GET /home/biography-of-day.
func (h *Handler) BiographyOfTheDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.biographyOfTheDay(ctx)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"biography": doc}))
}

// biographyOfTheDay picks one published biography per calendar day (UTC),
// preferring featured ones. The pick is stable for the whole day.
func (h *Handler) biographyOfTheDay(ctx context.Context) (store.Document, error) {
	pools := []query.Criteria{
		query.Where(published(), featured()),
		query.Where(published()),
	}
	byID := []query.SortKey{{Field: query.FieldID, Kind: query.ID}}
	day := store.Now().Unix() / 86400

	for _, crit := range pools {
		n, err := h.biographies.Count(ctx, crit)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		page := int(day%n) + 1
		d := query.NewDescriptor(crit, byID, page, 1).WithProjection(h.schemas.biographies.PublicProjection())
		docs, err := h.biographies.Find(ctx, d)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			return docs[0], nil
		}
	}
	return nil, response.NotFound("No biographies available")
}

// BiographyStats handles GET /biographies/stats.
func (h *Handler) BiographyStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	counts := map[string]query.Criteria{
		"total":     query.Where(),
		"published": query.Where(published()),
		"drafts":    query.Where(query.Eq("status", query.String, models.BiographyDraft)),
		"archived":  query.Where(query.Eq("status", query.String, models.BiographyArchived)),
		"featured":  query.Where(published(), featured()),
	}
	stats := make(map[string]any, len(counts)+2)
	for name, crit := range counts {
		n, err := h.biographies.Count(ctx, crit)
		if err != nil {
			response.Fail(w, r, err)
			return
		}
		stats[name] = n
	}

	docs, err := findAll(ctx, h.biographies, h.schemas.biographies, query.Where(published()), nil)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var views float64
	byCategory := map[string]int{}
	for _, doc := range docs {
		views += doc.Float("views")
		if c := doc.String("category"); c != "" {
			byCategory[c]++
		}
	}
	stats["totalViews"] = views
	stats["byCategory"] = byCategory

	response.Success(w, response.OK(response.Data{"stats": stats}))
}

// GetBiography handles GET /biographies/{slug} and counts the view. Drafts
// and archived biographies are visible to admins only.
func (h *Handler) GetBiography(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.biographyBySlug(ctx, param(r, "slug"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if doc.String("status") != models.BiographyPublished && !isAdmin(r) {
		response.Fail(w, r, response.NotFound(msgNoBiography))
		return
	}

	doc, err = h.biographies.Increment(ctx, doc.ID(), "views", 1)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"biography": public(h.schemas.biographies, doc)}))
}

// CreateBiography handles POST /biographies.
func (h *Handler) CreateBiography(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBiographyRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	doc := req.Document(principal(r).ID)
	if doc.String("slug") == "" {
		response.Fail(w, r, response.Validation("Title must contain letters or digits", nil))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	if err := h.checkCategory(ctx, req.Category); err != nil {
		response.Fail(w, r, err)
		return
	}

	doc, err := h.biographies.Insert(ctx, doc)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"biography": public(h.schemas.biographies, doc)}))
}

// UpdateBiography handles PATCH /biographies/{slug}.
func (h *Handler) UpdateBiography(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBiographyRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	patch := req.Patch(principal(r).ID)
	if slug, ok := patch["slug"].(string); ok && slug == "" {
		response.Fail(w, r, response.Validation("Title must contain letters or digits", nil))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	if req.Category != nil {
		if err := h.checkCategory(ctx, *req.Category); err != nil {
			response.Fail(w, r, err)
			return
		}
	}

	doc, err := h.biographyBySlug(ctx, param(r, "slug"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	doc, err = h.biographies.Update(ctx, doc.ID(), patch)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"biography": public(h.schemas.biographies, doc)}))
}

// DeleteBiography handles DELETE /biographies/{slug}.
func (h *Handler) DeleteBiography(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.biographyBySlug(ctx, param(r, "slug"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.biographies.Delete(ctx, doc.ID()); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// LikeBiography handles PATCH /biographies/{slug}/like, toggling the
// caller's like.
func (h *Handler) LikeBiography(w http.ResponseWriter, r *http.Request) {
	h.toggleMembership(w, r, "likes")
}

// BookmarkBiography handles PATCH /biographies/{slug}/bookmark, toggling the
// caller's bookmark.
func (h *Handler) BookmarkBiography(w http.ResponseWriter, r *http.Request) {
	h.toggleMembership(w, r, "bookmarks")
}

func (h *Handler) toggleMembership(w http.ResponseWriter, r *http.Request, field string) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.biographyBySlug(ctx, param(r, "slug"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	userID := principal(r).ID
	members := doc.Strings(field)
	active := !slices.Contains(members, userID)
	if active {
		members = append(members, userID)
	} else {
		members = slices.DeleteFunc(members, func(id string) bool { return id == userID })
	}

	doc, err = h.biographies.Update(ctx, doc.ID(), store.Document{field: members})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{
		"biography": public(h.schemas.biographies, doc),
		"active":    active,
		"count":     len(members),
	}))
}

// CommentBiography handles POST /biographies/{slug}/comment.
func (h *Handler) CommentBiography(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.biographyBySlug(ctx, param(r, "slug"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	comment := req.Comment(principal(r).ID, store.Now())
	comments, _ := doc["comments"].([]any)
	comments = append(comments, comment)

	if _, err := h.biographies.Update(ctx, doc.ID(), store.Document{"comments": comments}); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"comment": comment}))
}

// checkCategory rejects a category id that does not exist. An empty id is
// accepted.
func (h *Handler) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := h.categories.Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Validation("Category does not exist", map[string]string{"category": "unknown category"})
		}
		return err
	}
	return nil
}
