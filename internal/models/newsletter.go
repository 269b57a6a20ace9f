// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"

	"github.com/tomtom215/biographer/internal/store"
)

// SubscribeRequest is the body of POST /newsletter/subscribe.
type SubscribeRequest struct {
	Email       string              `json:"email" validate:"required,email"`
	Name        string              `json:"name" validate:"max=100"`
	Preferences *PreferencesRequest `json:"preferences"`
	Source      string              `json:"source" validate:"max=50"`
}

// PreferencesRequest is the body of PATCH /newsletter/preferences.
type PreferencesRequest struct {
	Frequency  string   `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	Categories []string `json:"categories" validate:"omitempty,max=20,dive,max=50"`
}

// Map returns the preferences as stored on the subscriber. Unset fields are
// left out so the service can fill its defaults.
func (r *PreferencesRequest) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := map[string]any{}
	if r.Frequency != "" {
		out["frequency"] = r.Frequency
	}
	if r.Categories != nil {
		out["categories"] = cleanList(r.Categories)
	}
	return out
}

// TargetAudience selects campaign recipients.
type TargetAudience struct {
	Status     []string `json:"status" validate:"omitempty,dive,oneof=pending subscribed unsubscribed bounced"`
	Frequency  []string `json:"frequency" validate:"omitempty,dive,oneof=daily weekly monthly"`
	Categories []string `json:"categories" validate:"omitempty,dive,max=50"`
}

func (t *TargetAudience) toMap() map[string]any {
	out := map[string]any{}
	if len(t.Status) > 0 {
		out["status"] = t.Status
	}
	if len(t.Frequency) > 0 {
		out["frequency"] = t.Frequency
	}
	if len(t.Categories) > 0 {
		out["categories"] = cleanList(t.Categories)
	}
	return out
}

// CreateCampaignRequest is the body of POST /newsletter/campaigns.
type CreateCampaignRequest struct {
	Subject        string          `json:"subject" validate:"required,notblank,max=200"`
	Title          string          `json:"title" validate:"required,notblank,max=200"`
	Content        string          `json:"content" validate:"required,notblank"`
	TargetAudience *TargetAudience `json:"targetAudience"`
}

// Document builds a draft campaign.
func (r *CreateCampaignRequest) Document(authorID string) store.Document {
	doc := store.Document{
		"subject":   strings.TrimSpace(r.Subject),
		"title":     strings.TrimSpace(r.Title),
		"content":   r.Content,
		"status":    "draft",
		"createdBy": authorID,
	}
	if r.TargetAudience != nil {
		doc["targetAudience"] = r.TargetAudience.toMap()
	}
	return doc
}

// UpdateCampaignRequest is the body of PATCH /newsletter/campaigns/{id}.
type UpdateCampaignRequest struct {
	Subject        *string         `json:"subject" validate:"omitempty,notblank,max=200"`
	Title          *string         `json:"title" validate:"omitempty,notblank,max=200"`
	Content        *string         `json:"content" validate:"omitempty,notblank"`
	TargetAudience *TargetAudience `json:"targetAudience"`
}

// Patch returns the fields present in the request.
func (r *UpdateCampaignRequest) Patch() store.Document {
	doc := store.Document{}
	setIf(doc, "subject", r.Subject)
	setIf(doc, "title", r.Title)
	setIf(doc, "content", r.Content)
	if r.TargetAudience != nil {
		doc["targetAudience"] = r.TargetAudience.toMap()
	}
	return doc
}
