// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"github.com/tomtom215/biographer/internal/store"
)

// SettingsID is the id of the single site settings document.
const SettingsID = "site"

// DefaultSettings is the settings document served before an admin saves
// one.
func DefaultSettings() store.Document {
	return store.Document{
		"general": map[string]any{
			"maintenance":         false,
			"registrationEnabled": true,
		},
		"site": map[string]any{
			"siteName":        "Biography Website",
			"siteDescription": "",
			"theme":           "light",
			"language":        "en",
			"timezone":        "UTC",
		},
		"contact": map[string]any{
			"email":   "",
			"phone":   "",
			"address": "",
		},
		"social": map[string]any{},
	}
}

// GeneralSettings toggles site-wide behaviour.
type GeneralSettings struct {
	Maintenance         *bool `json:"maintenance"`
	RegistrationEnabled *bool `json:"registrationEnabled"`
}

// SiteSettings is the public site identity.
type SiteSettings struct {
	SiteName        *string `json:"siteName" validate:"omitempty,notblank,max=100"`
	SiteDescription *string `json:"siteDescription" validate:"omitempty,max=500"`
	Theme           *string `json:"theme" validate:"omitempty,oneof=light dark"`
	Language        *string `json:"language" validate:"omitempty,bcp47_language_tag"`
	Timezone        *string `json:"timezone" validate:"omitempty,timezone"`
}

// ContactSettings is the published contact information.
type ContactSettings struct {
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=200"`
}

// SettingsRequest is the body of PATCH /settings. Each section merges into
// the stored section key by key.
type SettingsRequest struct {
	General *GeneralSettings   `json:"general"`
	Site    *SiteSettings      `json:"site"`
	Contact *ContactSettings   `json:"contact"`
	Social  *map[string]string `json:"social" validate:"omitempty,max=10,dive,omitempty,url"`
}

// Merge applies the request to current and returns the changed sections.
func (r *SettingsRequest) Merge(current store.Document) store.Document {
	patch := store.Document{}

	if r.General != nil {
		s := section(current, "general")
		setIf(s, "maintenance", r.General.Maintenance)
		setIf(s, "registrationEnabled", r.General.RegistrationEnabled)
		patch["general"] = map[string]any(s)
	}
	if r.Site != nil {
		s := section(current, "site")
		setIf(s, "siteName", r.Site.SiteName)
		setIf(s, "siteDescription", r.Site.SiteDescription)
		setIf(s, "theme", r.Site.Theme)
		setIf(s, "language", r.Site.Language)
		setIf(s, "timezone", r.Site.Timezone)
		patch["site"] = map[string]any(s)
	}
	if r.Contact != nil {
		s := section(current, "contact")
		setIf(s, "email", r.Contact.Email)
		setIf(s, "phone", r.Contact.Phone)
		setIf(s, "address", r.Contact.Address)
		patch["contact"] = map[string]any(s)
	}
	if r.Social != nil {
		s := section(current, "social")
		for k, v := range *r.Social {
			s[k] = v
		}
		patch["social"] = map[string]any(s)
	}
	return patch
}

// section returns a copy of a nested settings section.
func section(doc store.Document, key string) store.Document {
	out := store.Document{}
	if m, ok := doc[key].(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
