// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"

	"github.com/tomtom215/biographer/internal/store"
)

// Category display defaults.
const (
	DefaultCategoryIcon  = "FaBook"
	DefaultCategoryColor = "bg-blue-500"
)

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=50"`
	Description string  `json:"description" validate:"max=500"`
	Icon        string  `json:"icon" validate:"max=50"`
	Color       string  `json:"color" validate:"max=50"`
	Parent      *string `json:"parent" validate:"omitempty,uuid"`
	Featured    bool    `json:"featured"`
	Order       int     `json:"order" validate:"min=0"`
	IsActive    *bool   `json:"isActive"`
}

// Document builds the stored category.
func (r *CreateCategoryRequest) Document(authorID string) store.Document {
	icon, color := r.Icon, r.Color
	if icon == "" {
		icon = DefaultCategoryIcon
	}
	if color == "" {
		color = DefaultCategoryColor
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	doc := store.Document{
		"name":        strings.TrimSpace(r.Name),
		"slug":        Slugify(r.Name),
		"description": r.Description,
		"icon":        icon,
		"color":       color,
		"featured":    r.Featured,
		"order":       r.Order,
		"isActive":    active,
		"createdBy":   authorID,
	}
	if r.Parent != nil {
		doc["parent"] = *r.Parent
	}
	return doc
}

// UpdateCategoryRequest is the body of PATCH /categories/{id}.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	Color       *string `json:"color" validate:"omitempty,max=50"`
	Parent      *string `json:"parent" validate:"omitempty,uuid"`
	Featured    *bool   `json:"featured"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"isActive"`
}

// Patch returns the fields present in the request.
func (r *UpdateCategoryRequest) Patch(editorID string) store.Document {
	doc := store.Document{"updatedBy": editorID}
	if r.Name != nil {
		doc["name"] = strings.TrimSpace(*r.Name)
		doc["slug"] = Slugify(*r.Name)
	}
	setIf(doc, "description", r.Description)
	setIf(doc, "icon", r.Icon)
	setIf(doc, "color", r.Color)
	setIf(doc, "parent", r.Parent)
	setIf(doc, "featured", r.Featured)
	setIf(doc, "order", r.Order)
	setIf(doc, "isActive", r.IsActive)
	return doc
}
