// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

// activeCategory restricts a query to active categories.
func activeCategory() query.Condition {
	return query.Eq("isActive", query.Bool, true)
}

// categoryOrder is the display order of categories.
var categoryOrder = []query.SortKey{
	{Field: "order", Kind: query.Number},
	{Field: "name", Kind: query.String},
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.categories, h.schemas.categories)
}

// FeaturedCategories handles GET /categories/featured.
func (h *Handler) FeaturedCategories(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.categories, h.schemas.categories, activeCategory(), featured())
}

// CategoryTree handles GET /categories/tree: active categories nested under
// their parents. Categories whose parent is missing or inactive are roots.
func (h *Handler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	docs, err := findAll(ctx, h.categories, h.schemas.categories, query.Where(activeCategory()), categoryOrder)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("categories", buildTree(docs)))
}

// buildTree nests docs by their parent field, keeping the input order
// among siblings.
func buildTree(docs []store.Document) []store.Document {
	byID := make(map[string]store.Document, len(docs))
	for _, doc := range docs {
		doc["children"] = []store.Document{}
		byID[doc.ID()] = doc
	}

	roots := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		parent, ok := byID[doc.String("parent")]
		if !ok || parent.ID() == doc.ID() {
			roots = append(roots, doc)
			continue
		}
		parent["children"] = append(parent["children"].([]store.Document), doc)
	}
	return roots
}

// GetCategory handles GET /categories/{id}. The id may also be a slug. The
// category carries the count of its published biographies.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.categoryByIDOrSlug(ctx, param(r, "id"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	n, err := h.biographies.Count(ctx, query.Where(
		published(),
		query.Eq("category", query.String, doc.ID()),
	))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	doc = public(h.schemas.categories, doc)
	doc["biographyCount"] = n
	response.Success(w, response.OK(response.Data{"category": doc}))
}

func (h *Handler) categoryByIDOrSlug(ctx context.Context, key string) (store.Document, error) {
	doc, err := h.categories.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		doc, err = bySlug(ctx, h.categories, key)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("category")
	}
	return doc, err
}

// CreateCategory handles POST /categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	doc := req.Document(principal(r).ID)
	if doc.String("slug") == "" {
		response.Fail(w, r, response.Validation("Name must contain letters or digits", nil))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	if req.Parent != nil {
		if err := h.checkParent(ctx, "", *req.Parent); err != nil {
			response.Fail(w, r, err)
			return
		}
	}

	doc, err := h.categories.Insert(ctx, doc)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"category": public(h.schemas.categories, doc)}))
}

// UpdateCategory handles PATCH /categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCategoryRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	patch := req.Patch(principal(r).ID)
	if slug, ok := patch["slug"].(string); ok && slug == "" {
		response.Fail(w, r, response.Validation("Name must contain letters or digits", nil))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	if req.Parent != nil {
		if err := h.checkParent(ctx, id, *req.Parent); err != nil {
			response.Fail(w, r, err)
			return
		}
	}

	doc, err := h.categories.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("category")
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"category": public(h.schemas.categories, doc)}))
}

// checkParent rejects a parent that does not exist or is the category
// itself.
func (h *Handler) checkParent(ctx context.Context, id, parent string) error {
	if parent == "" {
		return nil
	}
	if parent == id {
		return response.Validation("A category cannot be its own parent", map[string]string{"parent": "self reference"})
	}
	if _, err := h.categories.Get(ctx, parent); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Validation("Parent category does not exist", map[string]string{"parent": "unknown category"})
		}
		return err
	}
	return nil
}

// DeleteCategory handles DELETE /categories/{id}. A category still used by
// a biography cannot be deleted.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	n, err := h.biographies.Count(ctx, query.Where(query.Eq("category", query.String, id)))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if n > 0 {
		response.Fail(w, r, response.Conflict("Cannot delete a category that has biographies"))
		return
	}

	if err := h.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = notFound("category")
		}
		response.Fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// ToggleCategoryFeatured handles PATCH /categories/{id}/toggle-featured.
func (h *Handler) ToggleCategoryFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	doc, err := h.categories.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("category")
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	doc, err = h.categories.Update(ctx, id, store.Document{
		"featured":  !doc.Bool("featured"),
		"updatedBy": principal(r).ID,
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"category": public(h.schemas.categories, doc)}))
}
