// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"net/http"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/query"
)

// homeFeaturedLimit caps the featured biographies on the home page.
const homeFeaturedLimit = 6

// HomeFeaturedBiographies handles GET /home/featured-biographies: the most
// viewed featured biographies.
func (h *Handler) HomeFeaturedBiographies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	d := query.NewDescriptor(
		query.Where(published(), featured()),
		[]query.SortKey{{Field: "views", Kind: query.Number, Desc: true}},
		1, homeFeaturedLimit,
	).WithProjection(h.schemas.biographies.PublicProjection())

	docs, err := h.biographies.Find(ctx, d)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("biographies", docs))
}

// HomeCategories handles GET /home/categories: active featured categories,
// or every active category when none is featured.
func (h *Handler) HomeCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	docs, err := findAll(ctx, h.categories, h.schemas.categories, query.Where(activeCategory(), featured()), categoryOrder)
	if err == nil && len(docs) == 0 {
		docs, err = findAll(ctx, h.categories, h.schemas.categories, query.Where(activeCategory()), categoryOrder)
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("categories", docs))
}
