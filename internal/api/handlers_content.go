// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

// ========================
// Pricing
// ========================

// ListPricing handles GET /pricing. Only active plans are listed.
func (h *Handler) ListPricing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.pricing, h.schemas.pricing, query.Eq("status", query.String, "active"))
}

// CreatePricing handles POST /pricing.
func (h *Handler) CreatePricing(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePricingRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.pricing.Insert(ctx, req.Document())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"pricing": doc}))
}

// GetPricing handles GET /pricing/{id}.
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.pricing, h.schemas.pricing, "pricing", "pricing plan")
}

// UpdatePricing handles PATCH /pricing/{id}.
func (h *Handler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePricingRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.updateByID(w, r, h.pricing, h.schemas.pricing, "pricing", "pricing plan", req.Patch())
}

// DeletePricing handles DELETE /pricing/{id}.
func (h *Handler) DeletePricing(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.pricing, "pricing plan")
}

// ========================
// FAQs
// ========================

// activeFAQ restricts a query to published questions.
func activeFAQ() query.Condition {
	return query.Eq("active", query.Bool, true)
}

// ListFAQs handles GET /faqs. Only active questions are listed.
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.faqs, h.schemas.faqs, activeFAQ())
}

// FAQsByCategory handles GET /faqs/category/{category}: every active
// question of one category, in display order.
func (h *Handler) FAQsByCategory(w http.ResponseWriter, r *http.Request) {
	category := param(r, "category")
	if !slices.Contains(models.FAQCategories, category) {
		response.Fail(w, r, response.Validation("Unknown FAQ category", map[string]string{"category": category}))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	docs, err := findAll(ctx, h.faqs, h.schemas.faqs,
		query.Where(activeFAQ(), query.Eq("category", query.String, category)),
		[]query.SortKey{{Field: "order", Kind: query.Number}},
	)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("faqs", docs))
}

// CreateFAQ handles POST /faqs.
func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFAQRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.faqs.Insert(ctx, req.Document())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"faq": doc}))
}

// GetFAQ handles GET /faqs/{id}.
func (h *Handler) GetFAQ(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.faqs, h.schemas.faqs, "faq", "FAQ")
}

// UpdateFAQ handles PATCH /faqs/{id}.
func (h *Handler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateFAQRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.updateByID(w, r, h.faqs, h.schemas.faqs, "faq", "FAQ", req.Patch())
}

// DeleteFAQ handles DELETE /faqs/{id}.
func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.faqs, "FAQ")
}

// ========================
// Shared by-id handlers
// ========================

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, coll store.Collection, schema *query.Schema, key, what string) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := coll.Get(ctx, param(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		err = notFound(what)
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{key: public(schema, doc)}))
}

func (h *Handler) updateByID(w http.ResponseWriter, r *http.Request, coll store.Collection, schema *query.Schema, key, what string, patch store.Document) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := coll.Update(ctx, param(r, "id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound(what)
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{key: public(schema, doc)}))
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, coll store.Collection, what string) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	if err := coll.Delete(ctx, param(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = notFound(what)
		}
		response.Fail(w, r, err)
		return
	}
	response.NoContent(w)
}
