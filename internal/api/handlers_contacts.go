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
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/store"
)

// CreateContact handles POST /contacts. The sender gets an acknowledgement
// and the site admin a notification; neither mail failure fails the
// request.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.contacts.Insert(ctx, req.Document(r.RemoteAddr, r.UserAgent()))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	h.sendMail(ctx, mail.ContactAcknowledgement(doc.String("email"), doc.String("name"), doc.String("subject")))
	if admin := h.adminAddress(ctx); admin != "" {
		h.sendMail(ctx, mail.AdminContactNotification(admin,
			doc.String("name"), doc.String("email"), doc.String("subject"), doc.String("message")))
	}

	response.Created(w, &response.Envelope{
		Status:  response.StatusSuccess,
		Message: "Your message has been sent successfully. We will get back to you soon!",
		Data:    response.Data{"contact": public(h.schemas.contacts, doc)},
	})
}

// adminAddress is the configured admin email, falling back to the contact
// address in the site settings.
func (h *Handler) adminAddress(ctx context.Context) string {
	if addr := h.config.Security.AdminEmail; addr != "" {
		return addr
	}
	settings, err := h.currentSettings(ctx)
	if err != nil {
		return ""
	}
	contact, _ := settings["contact"].(map[string]any)
	addr, _ := contact["email"].(string)
	return addr
}

// sendMail delivers msg and logs a failure.
func (h *Handler) sendMail(ctx context.Context, msg *mail.Message) {
	if err := h.mail.Send(ctx, msg); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("subject", msg.Subject).Msg("Failed to send email")
	}
}

// ListContacts handles GET /contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.contacts, h.schemas.contacts)
}

// GetContact handles GET /contacts/{id}. Opening a pending message marks
// it read.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := param(r, "id")
	doc, err := h.contacts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("message")
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if doc.String("status") == models.ContactPending {
		doc, err = h.contacts.Update(ctx, id, store.Document{"status": models.ContactRead})
		if err != nil {
			response.Fail(w, r, err)
			return
		}
	}
	response.Success(w, response.OK(response.Data{"contact": public(h.schemas.contacts, doc)}))
}

// UpdateContactStatus handles PATCH /contacts/{id}/status.
func (h *Handler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	var req models.ContactStatusRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	patch := req.Patch(principal(r).ID)
	if req.ReplyMessage != nil {
		patch["repliedAt"] = store.Timestamp(store.Now())
	}
	h.updateByID(w, r, h.contacts, h.schemas.contacts, "contact", "message", patch)
}
