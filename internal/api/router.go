// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/authz"
	"github.com/tomtom215/biographer/internal/middleware"
)

// Route prefixes, also used as cache invalidation prefixes.
const (
	apiPrefix         = "/api/v1"
	prefixBiographies = apiPrefix + "/biographies"
	prefixCategories  = apiPrefix + "/categories"
	prefixPricing     = apiPrefix + "/pricing"
	prefixFAQs        = apiPrefix + "/faqs"
	prefixSettings    = apiPrefix + "/settings"
	prefixHome        = apiPrefix + "/home"
)

// Home feed cache lifetimes.
const (
	ttlFeaturedBiographies = 5 * time.Minute
	ttlBiographyOfDay      = 24 * time.Hour
	ttlHomeCategories      = time.Hour
)

// healthRequestsPerMinute limits health checks per client IP.
const healthRequestsPerMinute = 1000

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler *Handler
}

// NewRouter creates a router for h.
func NewRouter(h *Handler) *Router {
	return &Router{handler: h}
}

// admin is the middleware chain of admin-only route groups: authenticate,
// require the admin role, then check the route class policy.
func (router *Router) admin(class string) chi.Middlewares {
	g := router.handler.gate
	return chi.Middlewares{g.RequireAuth, g.RequireRole(auth.RoleAdmin), g.Authorize(class)}
}

// member is the middleware chain of routes open to any signed-in principal
// the route class policy admits.
func (router *Router) member(class string) chi.Middlewares {
	g := router.handler.gate
	return chi.Middlewares{g.RequireAuth, g.Authorize(class)}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	if len(h.config.Security.TrustedProxies) > 0 {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recover)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(h.config.Security.CORSOrigins))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.Fail(w, req, response.NotFound("Can't find "+req.URL.Path+" on this server!"))
	})

	// ========================
	// Ops Endpoints
	// ========================
	r.Route("/health", router.healthRoutes)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(h.limits.Limit(h.limits.API))

		r.Route("/health", router.healthRoutes)

		r.Route("/auth", router.authRoutes)
		r.Route("/biographies", router.biographyRoutes)
		r.Route("/categories", router.categoryRoutes)
		r.Route("/pricing", router.pricingRoutes)
		r.Route("/faqs", router.faqRoutes)
		r.Route("/contacts", router.contactRoutes)
		r.Route("/newsletter", router.newsletterRoutes)
		r.Route("/settings", router.settingsRoutes)
		r.Route("/users", router.userRoutes)
		r.Route("/profile", router.profileRoutes)
		r.Route("/dashboard", router.dashboardRoutes)
		r.Route("/home", router.homeRoutes)
	})

	return r
}

// ========================
// Health
// ========================
func (router *Router) healthRoutes(r chi.Router) {
	h := router.handler
	r.Use(httprate.LimitByIP(healthRequestsPerMinute, time.Minute))

	r.Get("/", h.Health)
	r.Get("/live", h.HealthLive)
	r.Get("/ready", h.HealthReady)
}

// ========================
// Authentication
// ========================
func (router *Router) authRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.limits.Limit(h.limits.Auth))

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/admin/login", h.AdminLogin)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(router.member(authz.ClassSession)...)
		r.Get("/me", h.Me)
		r.Patch("/update-password", h.UpdatePassword)
	})
}

// ========================
// Content
// ========================
func (router *Router) biographyRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.cache.Invalidate(prefixBiographies, prefixHome))

	r.With(h.cache.Cache).Get("/", h.ListBiographies)
	r.With(h.cache.Cache).Get("/featured", h.FeaturedBiographies)
	r.With(h.cache.CacheFor(ttlBiographyOfDay)).Get("/biography-of-the-day", h.BiographyOfTheDay)
	r.With(h.cache.Cache).Get("/stats", h.BiographyStats)
	r.With(h.gate.OptionalAuth).Get("/{slug}", h.GetBiography)

	r.Group(func(r chi.Router) {
		r.Use(router.member(authz.ClassEngagement)...)
		r.Patch("/{slug}/like", h.LikeBiography)
		r.Patch("/{slug}/bookmark", h.BookmarkBiography)
		r.Post("/{slug}/comment", h.CommentBiography)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassContent)...)
		r.Use(h.recordActivity(CollectionBiographies))
		r.Post("/", h.CreateBiography)
		r.Patch("/{slug}", h.UpdateBiography)
		r.Delete("/{slug}", h.DeleteBiography)
	})
}

func (router *Router) categoryRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.cache.Invalidate(prefixCategories, prefixHome))

	r.With(h.cache.Cache).Get("/", h.ListCategories)
	r.With(h.cache.Cache).Get("/featured", h.FeaturedCategories)
	r.With(h.cache.Cache).Get("/tree", h.CategoryTree)
	r.With(h.cache.Cache).Get("/{id}", h.GetCategory)

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassContent)...)
		r.Use(h.recordActivity(CollectionCategories))
		r.Post("/", h.CreateCategory)
		r.Patch("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
		r.Patch("/{id}/toggle-featured", h.ToggleCategoryFeatured)
	})
}

func (router *Router) pricingRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.cache.Invalidate(prefixPricing))

	r.With(h.cache.Cache).Get("/", h.ListPricing)

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassContent)...)
		r.Use(h.recordActivity(CollectionPricing))
		r.Post("/", h.CreatePricing)
		r.Get("/{id}", h.GetPricing)
		r.Patch("/{id}", h.UpdatePricing)
		r.Delete("/{id}", h.DeletePricing)
	})
}

func (router *Router) faqRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.cache.Invalidate(prefixFAQs))

	r.With(h.cache.Cache).Get("/", h.ListFAQs)
	r.With(h.cache.Cache).Get("/category/{category}", h.FAQsByCategory)

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassContent)...)
		r.Use(h.recordActivity(CollectionFAQs))
		r.Post("/", h.CreateFAQ)
		r.Get("/{id}", h.GetFAQ)
		r.Patch("/{id}", h.UpdateFAQ)
		r.Delete("/{id}", h.DeleteFAQ)
	})
}

func (router *Router) settingsRoutes(r chi.Router) {
	h := router.handler
	r.Use(h.cache.Invalidate(prefixSettings))

	r.With(h.cache.Cache).Get("/", h.GetSettings)
	r.With(append(router.admin(authz.ClassSettings), h.recordActivity(CollectionSettings))...).
		Patch("/", h.UpdateSettings)
}

func (router *Router) homeRoutes(r chi.Router) {
	h := router.handler
	r.With(h.cache.CacheFor(ttlFeaturedBiographies)).Get("/featured-biographies", h.HomeFeaturedBiographies)
	r.With(h.cache.CacheFor(ttlBiographyOfDay)).Get("/biography-of-day", h.BiographyOfTheDay)
	r.With(h.cache.CacheFor(ttlHomeCategories)).Get("/categories", h.HomeCategories)
}

// ========================
// Inbox and Newsletter
// ========================
func (router *Router) contactRoutes(r chi.Router) {
	h := router.handler
	r.Post("/", h.CreateContact)

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassInbox)...)
		r.Use(h.recordActivity(CollectionContacts))
		r.Get("/", h.ListContacts)
		r.Get("/{id}", h.GetContact)
		r.Patch("/{id}/status", h.UpdateContactStatus)
	})
}

func (router *Router) newsletterRoutes(r chi.Router) {
	h := router.handler
	r.With(h.limits.Limit(h.limits.Newsletter)).Post("/subscribe", h.Subscribe)
	r.Get("/verify/{token}", h.VerifySubscription)
	r.Get("/unsubscribe/{token}", h.Unsubscribe)
	r.With(router.member(authz.ClassSubscription)...).Patch("/preferences", h.UpdatePreferences)

	r.Group(func(r chi.Router) {
		r.Use(router.admin(authz.ClassCampaigns)...)
		r.Use(h.recordActivity("campaigns"))
		r.Get("/subscribers", h.ListSubscribers)
		r.Get("/stats/subscribers", h.SubscriberStats)
		r.Get("/stats/campaigns", h.CampaignStats)
		r.Get("/campaigns", h.ListCampaigns)
		r.Post("/campaigns", h.CreateCampaign)
		r.Get("/campaigns/{id}", h.GetCampaign)
		r.Patch("/campaigns/{id}", h.UpdateCampaign)
		r.Delete("/campaigns/{id}", h.DeleteCampaign)
		r.Post("/campaigns/{id}/send", h.SendCampaign)
	})
}

// ========================
// Accounts and Administration
// ========================
func (router *Router) userRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.admin(authz.ClassUsers)...)
	r.Use(h.recordActivity(CollectionUsers))

	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/stats", h.UserStats)
	r.Get("/{id}", h.GetUser)
	r.Patch("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)
	r.Patch("/{id}/toggle-status", h.ToggleUserStatus)
	r.With(h.gate.ForbidSelfRoleChange("id")).Patch("/{id}/role", h.ChangeUserRole)
	r.Get("/{id}/activities", h.UserActivities)
	r.Post("/{id}/reset-password", h.ResetUserPassword)
}

func (router *Router) profileRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.member(authz.ClassProfile)...)

	r.Get("/", h.GetProfile)
	r.Patch("/", h.UpdateProfile)
}

func (router *Router) dashboardRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.admin(authz.ClassDashboard)...)

	r.Get("/overview", h.DashboardOverview)
	r.Get("/activity-logs", h.ActivityLogs)
	r.Get("/popular-biographies", h.PopularBiographies)
	r.Get("/user-stats", h.DashboardUserStats)
}
