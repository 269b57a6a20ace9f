// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package ratelimit implements fixed-window request limiting per client key
// on top of go-chi/httprate.
//
// Each route class (api, auth, newsletter) owns a Limiter: an
// httprate.RateLimiter backed by a fixed-window Counter. Windows are
// aligned to multiples of the window length; a client may send Max requests
// per window and the next window starts from zero. httprate sets the
// X-RateLimit-* and Retry-After headers; rejected requests get the class
// message in the standard error envelope.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/metrics"
)

// Rule configures one route class.
type Rule struct {
	Window  time.Duration
	Max     int
	Message string
}

// Decision is the outcome of one Take.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time until the window resets, rounded up to whole
// seconds and never below one second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait < time.Second {
		return time.Second
	}
	return (wait + time.Second - 1) / time.Second * time.Second
}

// Limiter enforces one route class.
type Limiter struct {
	class   string
	rule    Rule
	counter *Counter
	rl      *httprate.RateLimiter
}

// New creates a limiter for a route class keyed by keyFunc. Max below one
// admits nothing.
func New(class string, rule Rule, keyFunc httprate.KeyFunc) *Limiter {
	l := &Limiter{class: class, rule: rule, counter: NewCounter()}
	l.rl = httprate.NewRateLimiter(rule.Max, rule.Window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitCounter(l.counter),
		httprate.WithLimitHandler(l.onLimit),
		httprate.WithErrorHandler(l.onError),
	)
	return l
}

// Class returns the route class name.
func (l *Limiter) Class() string {
	return l.class
}

// Rule returns the configured rule.
func (l *Limiter) Rule() Rule {
	return l.rule
}

// Counter returns the window counter.
func (l *Limiter) Counter() *Counter {
	return l.counter
}

// Handler is the chi middleware for this class.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return l.rl.Handler(next)
}

// Allow reports whether one more request from key fits in its window.
func (l *Limiter) Allow(key string) bool {
	return l.Take(key).Allowed
}

// Take counts one request from key, as the middleware would, and reports
// the window state from the headers httprate produced.
func (l *Limiter) Take(key string) Decision {
	h := headerSink{}
	req := (&http.Request{}).WithContext(context.Background())
	limited := l.rl.OnLimit(h, req, key)

	d := Decision{Allowed: !limited}
	d.Limit, _ = strconv.Atoi(h.Get("X-RateLimit-Limit"))
	d.Remaining, _ = strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		d.ResetAt = time.Unix(reset, 0)
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	return d
}

func (l *Limiter) onLimit(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimited(l.class)
	response.Fail(w, r, response.RateLimited(l.rule.Message))
}

func (l *Limiter) onError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Warn().Err(err).Str("class", l.class).Msg("Rate limit check failed")
	response.Fail(w, r, err)
}

// headerSink is the ResponseWriter Take hands to httprate; only the headers
// are kept.
type headerSink http.Header

func (h headerSink) Header() http.Header         { return http.Header(h) }
func (h headerSink) Write(b []byte) (int, error) { return len(b), nil }
func (h headerSink) WriteHeader(int)             {}

func (h headerSink) Get(key string) string { return http.Header(h).Get(key) }
