// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/tomtom215/biographer/internal/store"
)

// Biography publication states.
const (
	BiographyDraft     = "draft"
	BiographyPublished = "published"
	BiographyArchived  = "archived"
)

// CreateBiographyRequest is the body of POST /biographies.
type CreateBiographyRequest struct {
	Title            string   `json:"title" validate:"required,notblank,max=100"`
	Name             string   `json:"name" validate:"required,notblank,max=100"`
	ShortDescription string   `json:"shortDescription" validate:"required,notblank,max=200"`
	Description      string   `json:"description" validate:"required,notblank"`
	BirthDate        string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	DeathDate        string   `json:"deathDate" validate:"omitempty,datetime=2006-01-02"`
	BirthPlace       string   `json:"birthPlace" validate:"max=100"`
	DeathPlace       string   `json:"deathPlace" validate:"max=100"`
	Nationality      []string `json:"nationality" validate:"omitempty,dive,max=60"`
	Occupation       []string `json:"occupation" validate:"omitempty,dive,max=60"`
	KnownFor         []string `json:"knownFor" validate:"omitempty,dive,max=100"`
	Tags             []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	Category         string   `json:"category" validate:"omitempty,uuid"`
	Image            string   `json:"image" validate:"omitempty,url"`
	ProfileImage     string   `json:"profileImage" validate:"omitempty,url"`
	Featured         bool     `json:"featured"`
	Status           string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// Document builds the stored biography. The slug derives from the title.
func (r *CreateBiographyRequest) Document(authorID string) store.Document {
	status := r.Status
	if status == "" {
		status = BiographyPublished
	}
	doc := store.Document{
		"title":            strings.TrimSpace(r.Title),
		"slug":             Slugify(r.Title),
		"name":             strings.TrimSpace(r.Name),
		"shortDescription": r.ShortDescription,
		"description":      r.Description,
		"birthPlace":       r.BirthPlace,
		"deathPlace":       r.DeathPlace,
		"nationality":      cleanList(r.Nationality),
		"occupation":       cleanList(r.Occupation),
		"knownFor":         cleanList(r.KnownFor),
		"tags":             cleanList(r.Tags),
		"category":         r.Category,
		"image":            r.Image,
		"profileImage":     r.ProfileImage,
		"featured":         r.Featured,
		"status":           status,
		"views":            0,
		"likes":            []string{},
		"bookmarks":        []string{},
		"comments":         []any{},
		"createdBy":        authorID,
	}
	if r.BirthDate != "" {
		setDate(doc, "birthDate", r.BirthDate)
	}
	if r.DeathDate != "" {
		setDate(doc, "deathDate", r.DeathDate)
	}
	return doc
}

// UpdateBiographyRequest is the body of PATCH /biographies/{slug}.
type UpdateBiographyRequest struct {
	Title            *string   `json:"title" validate:"omitempty,notblank,max=100"`
	Name             *string   `json:"name" validate:"omitempty,notblank,max=100"`
	ShortDescription *string   `json:"shortDescription" validate:"omitempty,notblank,max=200"`
	Description      *string   `json:"description" validate:"omitempty,notblank"`
	BirthDate        *string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	DeathDate        *string   `json:"deathDate" validate:"omitempty,datetime=2006-01-02"`
	BirthPlace       *string   `json:"birthPlace" validate:"omitempty,max=100"`
	DeathPlace       *string   `json:"deathPlace" validate:"omitempty,max=100"`
	Nationality      *[]string `json:"nationality"`
	Occupation       *[]string `json:"occupation"`
	KnownFor         *[]string `json:"knownFor"`
	Tags             *[]string `json:"tags" validate:"omitempty,max=20"`
	Category         *string   `json:"category" validate:"omitempty,uuid"`
	Image            *string   `json:"image" validate:"omitempty,url"`
	ProfileImage     *string   `json:"profileImage" validate:"omitempty,url"`
	Featured         *bool     `json:"featured"`
	Status           *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// Patch returns the fields present in the request. A new title also
// replaces the slug.
func (r *UpdateBiographyRequest) Patch(editorID string) store.Document {
	doc := store.Document{"updatedBy": editorID}
	if r.Title != nil {
		doc["title"] = strings.TrimSpace(*r.Title)
		doc["slug"] = Slugify(*r.Title)
	}
	setIf(doc, "name", r.Name)
	setIf(doc, "shortDescription", r.ShortDescription)
	setIf(doc, "description", r.Description)
	if r.BirthDate != nil {
		setDate(doc, "birthDate", *r.BirthDate)
	}
	if r.DeathDate != nil {
		setDate(doc, "deathDate", *r.DeathDate)
	}
	setIf(doc, "birthPlace", r.BirthPlace)
	setIf(doc, "deathPlace", r.DeathPlace)
	for key, list := range map[string]*[]string{
		"nationality": r.Nationality,
		"occupation":  r.Occupation,
		"knownFor":    r.KnownFor,
		"tags":        r.Tags,
	} {
		if list != nil {
			doc[key] = cleanList(*list)
		}
	}
	setIf(doc, "category", r.Category)
	setIf(doc, "image", r.Image)
	setIf(doc, "profileImage", r.ProfileImage)
	setIf(doc, "featured", r.Featured)
	setIf(doc, "status", r.Status)
	return doc
}

// CommentRequest is the body of POST /biographies/{slug}/comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=1000"`
}

// Comment builds the stored comment.
func (r *CommentRequest) Comment(userID string, at time.Time) map[string]any {
	return map[string]any{
		"id":        store.NewID(),
		"user":      userID,
		"content":   strings.TrimSpace(r.Content),
		"createdAt": store.Timestamp(at),
	}
}

// Slugify lowercases s, keeps ASCII letters and digits, and folds every
// other run of characters into one hyphen.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(s) {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	return b.String()
}
