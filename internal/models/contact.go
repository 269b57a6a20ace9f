// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"

	"github.com/tomtom215/biographer/internal/store"
)

// Contact message states.
const (
	ContactPending  = "pending"
	ContactRead     = "read"
	ContactReplied  = "replied"
	ContactArchived = "archived"
	ContactSpam     = "spam"
)

// ContactRequest is the body of the public POST /contacts.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=50"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,notblank,max=100"`
	Message string `json:"message" validate:"required,notblank,max=1000"`
}

// Document builds the stored message with request metadata.
func (r *ContactRequest) Document(ip, userAgent string) store.Document {
	return store.Document{
		"name":      strings.TrimSpace(r.Name),
		"email":     NormalizeEmail(r.Email),
		"subject":   strings.TrimSpace(r.Subject),
		"message":   r.Message,
		"status":    ContactPending,
		"priority":  "medium",
		"ipAddress": ip,
		"userAgent": userAgent,
	}
}

// ContactStatusRequest is the body of PATCH /contacts/{id}/status.
type ContactStatusRequest struct {
	Status       string  `json:"status" validate:"required,oneof=pending read replied archived spam"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	ReplyMessage *string `json:"replyMessage" validate:"omitempty,max=5000"`
}

// Patch returns the status change. A reply records who replied.
func (r *ContactStatusRequest) Patch(adminID string) store.Document {
	doc := store.Document{"status": r.Status}
	setIf(doc, "priority", r.Priority)
	if r.ReplyMessage != nil {
		doc["replyMessage"] = *r.ReplyMessage
		doc["repliedBy"] = adminID
	}
	return doc
}
