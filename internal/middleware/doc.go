// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package middleware provides the HTTP middleware shared by every route.

Global stack, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.Security.CORSOrigins))

All middleware uses the func(http.Handler) http.Handler shape so it composes
with chi.Router.Use and chi.Router.With. Rate limiting, response caching and
access control live in their own packages (ratelimit, cache, authz) because
they are applied per route group.
*/
package middleware
