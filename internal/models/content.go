// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"

	"github.com/tomtom215/biographer/internal/store"
)

// CreatePricingRequest is the body of POST /pricing.
type CreatePricingRequest struct {
	Name         string   `json:"name" validate:"required,notblank,max=50"`
	Description  string   `json:"description" validate:"required,notblank"`
	Price        float64  `json:"price" validate:"min=0"`
	Currency     string   `json:"currency" validate:"omitempty,oneof=USD EUR GBP"`
	BillingCycle string   `json:"billingCycle" validate:"omitempty,oneof=once hourly daily weekly monthly yearly"`
	Features     []string `json:"features" validate:"omitempty,dive,max=200"`
	IsPopular    bool     `json:"isPopular"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Order        int      `json:"order" validate:"min=0"`
}

// Document builds the stored plan.
func (r *CreatePricingRequest) Document() store.Document {
	currency, cycle, status := r.Currency, r.BillingCycle, r.Status
	if currency == "" {
		currency = "USD"
	}
	if cycle == "" {
		cycle = "monthly"
	}
	if status == "" {
		status = "active"
	}
	return store.Document{
		"name":         strings.TrimSpace(r.Name),
		"description":  r.Description,
		"price":        r.Price,
		"currency":     currency,
		"billingCycle": cycle,
		"features":     cleanList(r.Features),
		"isPopular":    r.IsPopular,
		"status":       status,
		"order":        r.Order,
	}
}

// UpdatePricingRequest is the body of PATCH /pricing/{id}.
type UpdatePricingRequest struct {
	Name         *string   `json:"name" validate:"omitempty,notblank,max=50"`
	Description  *string   `json:"description" validate:"omitempty,notblank"`
	Price        *float64  `json:"price" validate:"omitempty,min=0"`
	Currency     *string   `json:"currency" validate:"omitempty,oneof=USD EUR GBP"`
	BillingCycle *string   `json:"billingCycle" validate:"omitempty,oneof=once hourly daily weekly monthly yearly"`
	Features     *[]string `json:"features"`
	IsPopular    *bool     `json:"isPopular"`
	Status       *string   `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Order        *int      `json:"order" validate:"omitempty,min=0"`
}

// Patch returns the fields present in the request.
func (r *UpdatePricingRequest) Patch() store.Document {
	doc := store.Document{}
	setIf(doc, "name", r.Name)
	setIf(doc, "description", r.Description)
	setIf(doc, "price", r.Price)
	setIf(doc, "currency", r.Currency)
	setIf(doc, "billingCycle", r.BillingCycle)
	if r.Features != nil {
		doc["features"] = cleanList(*r.Features)
	}
	setIf(doc, "isPopular", r.IsPopular)
	setIf(doc, "status", r.Status)
	setIf(doc, "order", r.Order)
	return doc
}

// FAQCategories lists the accepted FAQ categories.
var FAQCategories = []string{"general", "account", "billing", "technical", "content", "other"}

// CreateFAQRequest is the body of POST /faqs.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,notblank,max=300"`
	Answer   string `json:"answer" validate:"required,notblank"`
	Category string `json:"category" validate:"omitempty,oneof=general account billing technical content other"`
	Active   *bool  `json:"active"`
	Order    int    `json:"order" validate:"min=0"`
}

// Document builds the stored FAQ.
func (r *CreateFAQRequest) Document() store.Document {
	category := r.Category
	if category == "" {
		category = "general"
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return store.Document{
		"question": strings.TrimSpace(r.Question),
		"answer":   r.Answer,
		"category": category,
		"active":   active,
		"order":    r.Order,
	}
}

// UpdateFAQRequest is the body of PATCH /faqs/{id}.
type UpdateFAQRequest struct {
	Question *string `json:"question" validate:"omitempty,notblank,max=300"`
	Answer   *string `json:"answer" validate:"omitempty,notblank"`
	Category *string `json:"category" validate:"omitempty,oneof=general account billing technical content other"`
	Active   *bool   `json:"active"`
	Order    *int    `json:"order" validate:"omitempty,min=0"`
}

// Patch returns the fields present in the request.
func (r *UpdateFAQRequest) Patch() store.Document {
	doc := store.Document{}
	setIf(doc, "question", r.Question)
	setIf(doc, "answer", r.Answer)
	setIf(doc, "category", r.Category)
	setIf(doc, "active", r.Active)
	setIf(doc, "order", r.Order)
	return doc
}
