// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of failure envelopes by error kind",
		},
		[]string{"kind"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend", "operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"backend", "operation", "collection"},
	)

	// Rate Limit Metrics
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total number of requests rejected by a rate limit class",
		},
		[]string{"class"},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of responses served from cache",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of cacheable requests not found in cache",
		},
		[]string{"backend"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "response_cache_entries",
			Help: "Current number of cached responses",
		},
		[]string{"backend"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_invalidated_total",
			Help: "Total number of cache entries removed by prefix invalidation",
		},
		[]string{"backend"},
	)

	// Authentication Metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected requests by failure reason",
		},
		[]string{"reason"},
	)

	AuthLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events handled by subscribers",
		},
		[]string{"topic", "result"},
	)

	// Mail Metrics
	MailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Total number of outgoing mails by result",
		},
		[]string{"result"},
	)

	NewsletterDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_deliveries_total",
			Help: "Total number of campaign deliveries by result",
		},
		[]string{"result"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIError counts a failure envelope.
func RecordAPIError(kind string) {
	APIErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordStoreOperation records a document store call.
func RecordStoreOperation(backend, operation, collection string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation, collection).Inc()
	}
}

// RecordRateLimited counts a 429.
func RecordRateLimited(class string) {
	RateLimitRejections.WithLabelValues(class).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
	} else {
		CacheMisses.WithLabelValues(backend).Inc()
	}
}

// RecordAuthFailure counts a rejected request.
func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	AuthLogins.WithLabelValues(result(success)).Inc()
}

// RecordEventPublished counts a publish attempt.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, result(err == nil)).Inc()
}

// RecordEventProcessed counts a handled event.
func RecordEventProcessed(topic string, err error) {
	EventsProcessed.WithLabelValues(topic, result(err == nil)).Inc()
}

// RecordMailSent counts an outgoing mail.
func RecordMailSent(err error) {
	MailsSent.WithLabelValues(result(err == nil)).Inc()
}

// RecordNewsletterDelivery counts one campaign recipient.
func RecordNewsletterDelivery(err error) {
	NewsletterDeliveries.WithLabelValues(result(err == nil)).Inc()
}

// SetCircuitBreakerState publishes a breaker transition.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
