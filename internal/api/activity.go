// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/biographer/internal/eventprocessor"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/middleware"
)

// activityParams are the URL parameters read as the target resource id.
var activityParams = []string{"id", "slug"}

// recordActivity publishes an activity event after every successful write
// made by an admin under the wrapped routes.
func (h *Handler) recordActivity(resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if h.events == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action := eventprocessor.ActionForMethod(r.Method)
			if action == "" {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 || !isAdmin(r) {
				return
			}

			event := eventprocessor.NewActivityEvent(principal(r).ID, action, resource)
			event.ResourceID = resourceID(r)
			event.Status = status
			h.publishActivity(r, event)
		})
	}
}

// publishActivity fills the request fields of event and publishes it.
// Failures are logged and never reach the client.
func (h *Handler) publishActivity(r *http.Request, event *eventprocessor.ActivityEvent) {
	if h.events == nil {
		return
	}
	event.Method = r.Method
	event.Path = r.URL.Path
	event.IPAddress = r.RemoteAddr
	event.UserAgent = r.UserAgent()
	event.RequestID = middleware.GetRequestID(r)

	if err := h.events.PublishActivity(r.Context(), event); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("action", event.Action).
			Str("resource", event.Resource).
			Msg("Failed to publish activity event")
	}
}

// resourceID reads the routed id or slug once routing has completed.
func resourceID(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	for _, name := range activityParams {
		if v := rctx.URLParam(name); v != "" {
			return v
		}
	}
	return ""
}
