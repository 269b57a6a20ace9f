// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package cache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/metrics"
)

// HeaderCache reports HIT or MISS on cacheable responses.
const HeaderCache = "X-Cache"

// Responses keeps cached envelopes for GET routes and invalidates them
// after writes. A nil *Responses, or one built from a nil Cacher, passes
// every request through untouched.
type Responses struct {
	cacher     Cacher
	defaultTTL time.Duration
}

// NewResponses creates the response cache interceptor.
func NewResponses(c Cacher, defaultTTL time.Duration) *Responses {
	return &Responses{cacher: c, defaultTTL: defaultTTL}
}

// Enabled reports whether a backend is configured.
func (rc *Responses) Enabled() bool {
	return rc != nil && rc.cacher != nil
}

// Backend names the configured backend, or "disabled".
func (rc *Responses) Backend() string {
	if !rc.Enabled() {
		return "disabled"
	}
	return rc.cacher.Backend()
}

// Cache serves GET requests from the cache using the default TTL.
func (rc *Responses) Cache(next http.Handler) http.Handler {
	if !rc.Enabled() {
		return next
	}
	return rc.CacheFor(rc.defaultTTL)(next)
}

// CacheFor serves GET requests from the cache, keyed by path and query
// string. Only 200 responses are stored, for ttl. Hits carry
// "fromCache": true in the envelope. Backend errors degrade to a miss.
func (rc *Responses) CacheFor(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !rc.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := r.URL.RequestURI()
			backend := rc.cacher.Backend()

			body, ok, err := rc.cacher.Get(ctx, key)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
			}
			metrics.RecordCacheLookup(backend, ok)

			if ok {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set(HeaderCache, "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(markFromCache(body))
				return
			}

			w.Header().Set(HeaderCache, "MISS")
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK || rec.body.Len() == 0 {
				return
			}
			if err := rc.cacher.Set(ctx, key, rec.body.Bytes(), ttl); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache store failed")
			}
		})
	}
}

// Invalidate drops every cached key under the given route prefixes once a
// write request succeeds.
func (rc *Responses) Invalidate(prefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !rc.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}
			rc.InvalidatePrefixes(r, prefixes...)
		})
	}
}

// InvalidatePrefixes drops cached keys under each prefix, logging failures.
// Handlers whose side effects reach other collections call it directly.
func (rc *Responses) InvalidatePrefixes(r *http.Request, prefixes ...string) {
	if !rc.Enabled() {
		return
	}
	for _, prefix := range prefixes {
		n, err := rc.cacher.InvalidatePrefix(r.Context(), prefix)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("prefix", prefix).Msg("Cache invalidation failed")
			continue
		}
		logging.Ctx(r.Context()).Debug().Str("prefix", prefix).Int("removed", n).Msg("Cache invalidated")
	}
}

// markFromCache injects "fromCache":true as the first member of a JSON
// object. Anything that is not an object is returned unchanged.
func markFromCache(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) < 2 || trimmed[0] != '{' {
		return body
	}

	const flag = `"fromCache":true`
	rest := bytes.TrimSpace(trimmed[1:])
	out := make([]byte, 0, len(trimmed)+len(flag)+1)
	out = append(out, '{')
	out = append(out, flag...)
	if rest[0] != '}' {
		out = append(out, ',')
	}
	return append(out, rest...)
}

// recorder tees the response to the client and a buffer.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.status == http.StatusOK {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
