// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/query"
)

// Capability shorthands.
const (
	capText    = query.Filter | query.Search | query.Sort | query.Project
	capKeyword = query.Filter | query.Sort | query.Project
	capFlag    = query.Filter | query.Project
)

// schemas holds the list schema of every resource.
type schemas struct {
	users       *query.Schema
	biographies *query.Schema
	categories  *query.Schema
	pricing     *query.Schema
	faqs        *query.Schema
	contacts    *query.Schema
	subscribers *query.Schema
	campaigns   *query.Schema
	activities  *query.Schema
}

func newSchemas(cfg *config.APIConfig) *schemas {
	limit := func(s *query.Schema) *query.Schema {
		return s.WithLimits(cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	return &schemas{
		users: limit(query.NewSchema("users",
			query.Field{Name: "firstName", Kind: query.String, Caps: capText},
			query.Field{Name: "lastName", Kind: query.String, Caps: capText},
			query.Field{Name: "email", Kind: query.String, Caps: capText},
			query.Field{Name: "role", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "active", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "avatar", Kind: query.String, Caps: query.Project},
			query.Field{Name: "banner", Kind: query.String, Caps: query.Project},
			query.Field{Name: "location", Kind: query.String, Caps: capText},
		).WithHidden("password", "passwordChangedAt")),

		biographies: limit(query.NewSchema("biographies",
			query.Field{Name: "title", Kind: query.String, Caps: capText},
			query.Field{Name: "name", Kind: query.String, Caps: capText},
			query.Field{Name: "slug", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "shortDescription", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "description", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "tags", Kind: query.StringList, Caps: query.Filter | query.Search | query.Project},
			query.Field{Name: "nationality", Kind: query.StringList, Caps: capFlag},
			query.Field{Name: "occupation", Kind: query.StringList, Caps: capFlag},
			query.Field{Name: "knownFor", Kind: query.StringList, Caps: query.Project},
			query.Field{Name: "category", Kind: query.ID, Caps: capFlag},
			query.Field{Name: "status", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "featured", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "views", Kind: query.Number, Caps: capKeyword},
			query.Field{Name: "birthDate", Kind: query.Time, Caps: capKeyword},
			query.Field{Name: "deathDate", Kind: query.Time, Caps: capKeyword},
			query.Field{Name: "birthPlace", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "deathPlace", Kind: query.String, Caps: query.Project},
			query.Field{Name: "image", Kind: query.String, Caps: query.Project},
			query.Field{Name: "profileImage", Kind: query.String, Caps: query.Project},
			query.Field{Name: "likes", Kind: query.StringList, Caps: query.Project},
			query.Field{Name: "bookmarks", Kind: query.StringList, Caps: query.Project},
			query.Field{Name: "comments", Kind: query.String, Caps: query.Project},
			query.Field{Name: "createdBy", Kind: query.ID, Caps: capFlag},
		)),

		categories: limit(query.NewSchema("categories",
			query.Field{Name: "name", Kind: query.String, Caps: capText},
			query.Field{Name: "slug", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "description", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "icon", Kind: query.String, Caps: query.Project},
			query.Field{Name: "color", Kind: query.String, Caps: query.Project},
			query.Field{Name: "parent", Kind: query.ID, Caps: capFlag},
			query.Field{Name: "featured", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "isActive", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "order", Kind: query.Number, Caps: capKeyword},
		).WithDefaultSort("order,name")),

		pricing: limit(query.NewSchema("pricing",
			query.Field{Name: "name", Kind: query.String, Caps: capText},
			query.Field{Name: "description", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "price", Kind: query.Number, Caps: capKeyword},
			query.Field{Name: "currency", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "billingCycle", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "features", Kind: query.StringList, Caps: query.Project},
			query.Field{Name: "isPopular", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "status", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "order", Kind: query.Number, Caps: capKeyword},
		).WithDefaultSort("order,price")),

		faqs: limit(query.NewSchema("faqs",
			query.Field{Name: "question", Kind: query.String, Caps: capText},
			query.Field{Name: "answer", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "category", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "active", Kind: query.Bool, Caps: capFlag},
			query.Field{Name: "order", Kind: query.Number, Caps: capKeyword},
		).WithDefaultSort("order")),

		contacts: limit(query.NewSchema("contacts",
			query.Field{Name: "name", Kind: query.String, Caps: capText},
			query.Field{Name: "email", Kind: query.String, Caps: capText},
			query.Field{Name: "subject", Kind: query.String, Caps: capText},
			query.Field{Name: "message", Kind: query.String, Caps: query.Search | query.Project},
			query.Field{Name: "status", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "priority", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "replyMessage", Kind: query.String, Caps: query.Project},
			query.Field{Name: "repliedBy", Kind: query.ID, Caps: capFlag},
		)),

		subscribers: limit(query.NewSchema("subscribers",
			query.Field{Name: "email", Kind: query.String, Caps: capText},
			query.Field{Name: "name", Kind: query.String, Caps: capText},
			query.Field{Name: "status", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "bounceCount", Kind: query.Number, Caps: capKeyword},
		).WithHidden("verificationToken", "verificationExpires", "unsubscribeToken")),

		campaigns: limit(query.NewSchema("campaigns",
			query.Field{Name: "subject", Kind: query.String, Caps: capText},
			query.Field{Name: "title", Kind: query.String, Caps: capText},
			query.Field{Name: "status", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "sentAt", Kind: query.Time, Caps: capKeyword},
			query.Field{Name: "createdBy", Kind: query.ID, Caps: capFlag},
		)),

		activities: limit(query.NewSchema("activities",
			query.Field{Name: "actorId", Kind: query.ID, Caps: capFlag},
			query.Field{Name: "action", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "resource", Kind: query.String, Caps: capKeyword},
			query.Field{Name: "resourceId", Kind: query.String, Caps: capFlag},
			query.Field{Name: "occurredAt", Kind: query.Time, Caps: capKeyword},
			query.Field{Name: "path", Kind: query.String, Caps: query.Search | query.Project},
		).WithDefaultSort("-occurredAt")),
	}
}
