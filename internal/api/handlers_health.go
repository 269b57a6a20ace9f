// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/biographer/internal/api/response"
)

// healthPingTimeout bounds the store ping of a health check.
const healthPingTimeout = 2 * time.Second

// Version is reported by the health endpoint. Set at build time with
// -ldflags "-X github.com/tomtom215/biographer/internal/api.Version=...".
var Version = "dev"

// Health handles GET /health. It always answers 200; a store that cannot be
// reached reports the service as degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.pingStore(r.Context())

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	response.Success(w, response.OK(response.Data{
		"status":         status,
		"version":        Version,
		"environment":    h.config.Server.Environment,
		"storeConnected": storeConnected,
		"cache":          h.cache.Backend(),
		"events":         h.events != nil,
		"uptime":         time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now().UTC(),
	}))
}

// HealthLive handles GET /health/live. It answers 200 while the process
// is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	response.Success(w, response.OK(response.Data{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}))
}

// HealthReady handles GET /health/ready. It answers 503 until the store
// can be reached.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.pingStore(r.Context()) {
		response.JSON(w, http.StatusServiceUnavailable, &response.Envelope{
			Status: response.StatusError,
			Data:   response.Data{"ready": false},
		})
		return
	}
	response.Success(w, response.OK(response.Data{"ready": true}))
}

func (h *Handler) pingStore(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.store != nil && h.store.Ping(ctx) == nil
}
