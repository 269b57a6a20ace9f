// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/newsletter"
	"github.com/tomtom215/biographer/internal/store"
)

// newsletterError maps service errors to API errors.
func newsletterError(err error) error {
	switch {
	case errors.Is(err, newsletter.ErrAlreadySubscribed),
		errors.Is(err, newsletter.ErrAlreadySent),
		errors.Is(err, newsletter.ErrCampaignSending):
		return response.Conflict(err.Error())
	case errors.Is(err, newsletter.ErrInvalidVerification),
		errors.Is(err, newsletter.ErrInvalidUnsubscribe):
		return response.Validation(err.Error(), nil)
	case errors.Is(err, newsletter.ErrNoSubscription):
		return response.NotFound(err.Error())
	case errors.Is(err, newsletter.ErrVerificationMail):
		return response.Fault(err)
	case errors.Is(err, store.ErrNotFound):
		return notFound("campaign")
	}
	return err
}

// Subscribe handles POST /newsletter/subscribe.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	source := req.Source
	if source == "" {
		source = "website"
	}
	_, err := h.newsletter.Subscribe(ctx, newsletter.SubscribeRequest{
		Email:       req.Email,
		Name:        req.Name,
		Preferences: req.Preferences.Map(),
		IPAddress:   r.RemoteAddr,
		UserAgent:   r.UserAgent(),
		Source:      source,
	})
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.Created(w, response.Message("Please check your email to verify your subscription."))
}

// VerifySubscription handles GET /newsletter/verify/{token}.
func (h *Handler) VerifySubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	if _, err := h.newsletter.Verify(ctx, param(r, "token")); err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.Success(w, response.Message("Your subscription has been verified. Welcome aboard!"))
}

// Unsubscribe handles GET /newsletter/unsubscribe/{token}.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	if _, err := h.newsletter.Unsubscribe(ctx, param(r, "token")); err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.Success(w, response.Message("You have been unsubscribed from the newsletter."))
}

// UpdatePreferences handles PATCH /newsletter/preferences for the
// subscription matching the caller's email.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.PreferencesRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	sub, err := h.newsletter.UpdatePreferences(ctx, principal(r).Email, req.Map())
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.Success(w, response.OK(response.Data{"subscriber": public(h.schemas.subscribers, sub)}))
}

// ListSubscribers handles GET /newsletter/subscribers.
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.subscribers, h.schemas.subscribers)
}

// SubscriberStats handles GET /newsletter/stats/subscribers.
func (h *Handler) SubscriberStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	stats, err := h.newsletter.SubscriberStats(ctx)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("stats", stats))
}

// CampaignStats handles GET /newsletter/stats/campaigns.
func (h *Handler) CampaignStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	stats, err := h.newsletter.CampaignStats(ctx)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Items("stats", stats))
}

// ListCampaigns handles GET /newsletter/campaigns.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.campaigns, h.schemas.campaigns)
}

// CreateCampaign handles POST /newsletter/campaigns. Campaigns start as
// drafts.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCampaignRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.campaigns.Insert(ctx, req.Document(principal(r).ID))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"campaign": doc}))
}

// GetCampaign handles GET /newsletter/campaigns/{id}.
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.campaigns, h.schemas.campaigns, "campaign", "campaign")
}

// UpdateCampaign handles PATCH /newsletter/campaigns/{id}. Only drafts can
// be edited.
func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCampaignRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	doc, err := h.campaigns.Get(ctx, id)
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	if doc.String("status") != newsletter.CampaignDraft {
		response.Fail(w, r, response.Conflict("Only draft campaigns can be edited"))
		return
	}

	doc, err = h.campaigns.Update(ctx, id, req.Patch())
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.Success(w, response.OK(response.Data{"campaign": doc}))
}

// DeleteCampaign handles DELETE /newsletter/campaigns/{id}. A campaign
// being sent cannot be deleted.
func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	doc, err := h.campaigns.Get(ctx, id)
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	if doc.String("status") == newsletter.CampaignSending {
		response.Fail(w, r, newsletterError(newsletter.ErrCampaignSending))
		return
	}
	if err := h.campaigns.Delete(ctx, id); err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.NoContent(w)
}

// SendCampaign handles POST /newsletter/campaigns/{id}/send. Delivery runs
// in the background; the response reports the campaign as sending.
func (h *Handler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.newsletter.SendCampaign(ctx, param(r, "id"))
	if err != nil {
		response.Fail(w, r, newsletterError(err))
		return
	}
	response.JSON(w, http.StatusAccepted, &response.Envelope{
		Status:  response.StatusSuccess,
		Message: "Campaign is being sent",
		Data:    response.Data{"campaign": doc},
	})
}
