// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package cache stores rendered GET responses of public read endpoints and
drops them when a write touches the same resource.

# Backends

Two implementations satisfy Cacher:

  - Memory: a sync.Map of byte slices with per-entry expiry. Expired entries
    are removed lazily on Get and eagerly by Sweep, which the supervisor runs
    on a ticker.
  - Redis: go-redis with a key prefix. Expiry is native; InvalidatePrefix
    walks the namespace with SCAN so it never blocks the server.

# HTTP Middleware

Responses wraps a Cacher for use in a chi router:

	rc := cache.NewResponses(cache.NewMemory(), 5*time.Minute)

	r.With(rc.Cache).Get("/api/v1/faqs", h.ListFAQs)
	r.With(rc.Invalidate("/api/v1/faqs", "/api/v1/home")).Post("/api/v1/faqs", h.CreateFAQ)

The key is the full request URI, so every distinct query string is cached
separately. Only 200 responses with a body are stored. A cached body is
replayed with "fromCache": true spliced in as the first member of the
envelope and an X-Cache: HIT header; a fresh one carries X-Cache: MISS.

A nil *Responses is valid and passes every request through, which is how a
disabled cache is wired.

Backend failures never fail a request. A read error is logged and treated as
a miss; a write error is logged and dropped.
*/
package cache
