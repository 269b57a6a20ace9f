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

// currentSettings returns the stored site settings, or the defaults when
// none have been saved yet.
func (h *Handler) currentSettings(ctx context.Context) (store.Document, error) {
	doc, err := h.settings.Get(ctx, models.SettingsID)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	return doc, err
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.currentSettings(ctx)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"settings": doc}))
}

// UpdateSettings handles PATCH /settings. Sections merge key by key into
// the stored settings; the first update stores the defaults alongside.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.SettingsRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	current, err := h.settings.Get(ctx, models.SettingsID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc := models.DefaultSettings()
		for k, v := range req.Merge(doc) {
			doc[k] = v
		}
		doc[query.FieldID] = models.SettingsID
		doc["updatedBy"] = principal(r).ID
		current, err = h.settings.Insert(ctx, doc)
	case err == nil:
		patch := req.Merge(current)
		patch["updatedBy"] = principal(r).ID
		current, err = h.settings.Update(ctx, models.SettingsID, patch)
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"settings": current}))
}
