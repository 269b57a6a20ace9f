// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"context"
	"time"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/authz"
	"github.com/tomtom215/biographer/internal/cache"
	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/eventprocessor"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/newsletter"
	"github.com/tomtom215/biographer/internal/ratelimit"
	"github.com/tomtom215/biographer/internal/store"
)

// Collection names.
const (
	CollectionUsers       = "users"
	CollectionBiographies = "biographies"
	CollectionCategories  = "categories"
	CollectionPricing     = "pricing"
	CollectionFAQs        = "faqs"
	CollectionContacts    = "contacts"
	CollectionSettings    = "settings"
)

// Specs lists the unique fields of every collection the API writes, for the
// store constructors.
func Specs() []store.Spec {
	return []store.Spec{
		{Name: CollectionUsers, Unique: []string{"email"}},
		{Name: CollectionBiographies, Unique: []string{"slug"}},
		{Name: CollectionCategories, Unique: []string{"slug"}},
		{Name: CollectionPricing},
		{Name: CollectionFAQs},
		{Name: CollectionContacts},
		{Name: CollectionSettings},
		newsletter.SubscribersSpec,
		newsletter.CampaignsSpec,
		eventprocessor.ActivitiesSpec,
	}
}

// ActivityPublisher publishes audit events. *eventprocessor.Publisher
// satisfies it.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event *eventprocessor.ActivityEvent) error
}

// Dependencies are the collaborators the handlers need. Cache, Events and
// Limits may be nil; Mail defaults to a logging sender.
type Dependencies struct {
	Config     *config.Config
	Store      store.Store
	Tokens     *auth.TokenManager
	Enforcer   *authz.Enforcer
	Limits     *ratelimit.Set
	Cache      *cache.Responses
	Events     ActivityPublisher
	Mail       mail.Sender
	Newsletter *newsletter.Service
}

// Handler contains dependencies for API handlers.
type Handler struct {
	config     *config.Config
	store      store.Store
	tokens     *auth.TokenManager
	auth       *auth.Authenticator
	gate       *authz.Gate
	limits     *ratelimit.Set
	cache      *cache.Responses
	events     ActivityPublisher
	mail       mail.Sender
	newsletter *newsletter.Service
	security   *logging.SecurityLogger
	schemas    *schemas
	startTime  time.Time

	users       store.Collection
	biographies store.Collection
	categories  store.Collection
	pricing     store.Collection
	faqs        store.Collection
	contacts    store.Collection
	settings    store.Collection
	subscribers store.Collection
	campaigns   store.Collection
	activities  store.Collection
}

// NewHandler wires the handlers to their collections. The authenticator and
// access gate are built here from the token manager and the users
// collection.
func NewHandler(deps Dependencies) *Handler {
	h := &Handler{
		config:     deps.Config,
		store:      deps.Store,
		tokens:     deps.Tokens,
		limits:     deps.Limits,
		cache:      deps.Cache,
		events:     deps.Events,
		mail:       deps.Mail,
		newsletter: deps.Newsletter,
		security:   logging.NewSecurityLogger(),
		schemas:    newSchemas(&deps.Config.API),
		startTime:  time.Now(),

		users:       deps.Store.Collection(CollectionUsers),
		biographies: deps.Store.Collection(CollectionBiographies),
		categories:  deps.Store.Collection(CollectionCategories),
		pricing:     deps.Store.Collection(CollectionPricing),
		faqs:        deps.Store.Collection(CollectionFAQs),
		contacts:    deps.Store.Collection(CollectionContacts),
		settings:    deps.Store.Collection(CollectionSettings),
		subscribers: deps.Store.Collection(newsletter.SubscribersSpec.Name),
		campaigns:   deps.Store.Collection(newsletter.CampaignsSpec.Name),
		activities:  deps.Store.Collection(eventprocessor.ActivitiesSpec.Name),
	}
	if h.mail == nil {
		h.mail = mail.LogSender{}
	}
	if h.limits == nil {
		h.limits = ratelimit.NewSet(&config.RateLimitConfig{Disabled: true}, nil)
	}

	h.auth = auth.NewAuthenticator(deps.Tokens, auth.NewStorePrincipals(h.users), deps.Config.Security.CookieName)
	h.gate = authz.NewGate(h.auth, deps.Enforcer)
	return h
}
