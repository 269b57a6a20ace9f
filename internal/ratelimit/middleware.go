// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package ratelimit

import (
	"net/http"

	"github.com/go-chi/httprate"

	"github.com/tomtom215/biographer/internal/config"
)

// Response headers describing the caller's window, as set by httprate.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// Route class names.
const (
	ClassAPI        = "api"
	ClassAuth       = "auth"
	ClassNewsletter = "newsletter"
)

// Set holds one limiter per route class.
type Set struct {
	API        *Limiter
	Auth       *Limiter
	Newsletter *Limiter

	disabled bool
}

// NewSet builds the route class limiters from configuration. Behind trusted
// proxies clients are keyed by the forwarded address; otherwise by the
// connection's remote address so clients cannot pick their own key.
func NewSet(cfg *config.RateLimitConfig, trustedProxies []string) *Set {
	keyFunc := httprate.KeyByIP
	if len(trustedProxies) > 0 {
		keyFunc = httprate.KeyByRealIP
	}

	return &Set{
		API:        New(ClassAPI, ruleFrom(cfg.API), keyFunc),
		Auth:       New(ClassAuth, ruleFrom(cfg.Auth), keyFunc),
		Newsletter: New(ClassNewsletter, ruleFrom(cfg.Newsletter), keyFunc),
		disabled:   cfg.Disabled,
	}
}

func ruleFrom(r config.RateLimitRule) Rule {
	return Rule{Window: r.Window, Max: r.Max, Message: r.Message}
}

// Limit returns middleware enforcing l. It is a pass-through when rate
// limiting is disabled.
func (s *Set) Limit(l *Limiter) func(http.Handler) http.Handler {
	if s.disabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Handler
}

// Sweep drops elapsed windows from every class.
func (s *Set) Sweep() int {
	return s.API.counter.Sweep() + s.Auth.counter.Sweep() + s.Newsletter.counter.Sweep()
}
