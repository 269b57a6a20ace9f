// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package api provides the HTTP surface of the biography content API.

Routing uses the Chi router. Every request passes the global stack first:

	RequestID -> RealIP -> Recover -> RequestLogger -> PrometheusMetrics
	-> SecurityHeaders -> CORS -> Compress

Resource groups under /api/v1 then add, in order, the rate limiter for
their class, the response cache (public GETs only), the access gate, and
the activity interceptor for admin writes:

	request -> rate limit -> cache (hit short-circuits) -> gate -> handler
	        -> query engine -> store -> envelope -> cache store

Handler methods are split across files by resource:

  - handler.go: Handler, dependencies and collection wiring
  - helpers.go: body decoding, query timeouts, list and projection helpers
  - schemas.go: per-resource query schemas
  - activity.go: activity event interceptor
  - handlers_auth.go: register, login, logout, me, password change
  - handlers_biographies.go: biographies, engagement and comments
  - handlers_categories.go: categories and the category tree
  - handlers_content.go: pricing plans and FAQs
  - handlers_contacts.go: contact messages
  - handlers_newsletter.go: subscriptions and campaigns
  - handlers_settings.go: site settings
  - handlers_users.go: user administration and the caller's profile
  - handlers_dashboard.go: admin overview and activity logs
  - handlers_home.go: cached home page feeds
  - handlers_health.go: health check

Every response body is a response.Envelope. Errors are classified by
response.From, so handlers return store, query, auth and validation errors
unchanged.
*/
package api
