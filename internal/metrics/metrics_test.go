// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", o)
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/test/api/{id}", "200")
	hist := APIRequestDuration.WithLabelValues("GET", "/test/api/{id}")

	beforeCount := testutil.ToFloat64(counter)
	beforeObs := histogramCount(t, hist)

	RecordAPIRequest("GET", "/test/api/{id}", "200", 15*time.Millisecond)

	if got := testutil.ToFloat64(counter); got != beforeCount+1 {
		t.Errorf("api_requests_total = %v, want %v", got, beforeCount+1)
	}
	if got := histogramCount(t, hist); got != beforeObs+1 {
		t.Errorf("histogram sample count = %d, want %d", got, beforeObs+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	errCounter := StoreOperationErrors.WithLabelValues("memory", "get", "metrics_test")
	before := testutil.ToFloat64(errCounter)

	RecordStoreOperation("memory", "get", "metrics_test", time.Millisecond, nil)
	if got := testutil.ToFloat64(errCounter); got != before {
		t.Errorf("errors after success = %v, want %v", got, before)
	}

	RecordStoreOperation("memory", "get", "metrics_test", time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(errCounter); got != before+1 {
		t.Errorf("errors after failure = %v, want %v", got, before+1)
	}
}

func TestResultLabels(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		metric prometheus.Collector
	}{
		{"login success", func() { RecordLogin(true) }, AuthLogins.WithLabelValues("success")},
		{"login failure", func() { RecordLogin(false) }, AuthLogins.WithLabelValues("failure")},
		{"event published", func() { RecordEventPublished("t", nil) }, EventsPublished.WithLabelValues("t", "success")},
		{"event failed", func() { RecordEventPublished("t", errors.New("x")) }, EventsPublished.WithLabelValues("t", "failure")},
		{"event processed", func() { RecordEventProcessed("t", nil) }, EventsProcessed.WithLabelValues("t", "success")},
		{"mail failed", func() { RecordMailSent(errors.New("x")) }, MailsSent.WithLabelValues("failure")},
		{"delivery", func() { RecordNewsletterDelivery(nil) }, NewsletterDeliveries.WithLabelValues("success")},
		{"cache hit", func() { RecordCacheLookup("memory", true) }, CacheHits.WithLabelValues("memory")},
		{"cache miss", func() { RecordCacheLookup("memory", false) }, CacheMisses.WithLabelValues("memory")},
		{"rate limited", func() { RecordRateLimited("auth") }, RateLimitRejections.WithLabelValues("auth")},
		{"auth failure", func() { RecordAuthFailure("invalid_token") }, AuthFailures.WithLabelValues("invalid_token")},
		{"api error", func() { RecordAPIError("not_found") }, APIErrorsTotal.WithLabelValues("not_found")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(tt.metric)
			tt.record()
			if got := testutil.ToFloat64(tt.metric); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
		})
	}
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("smtp", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("smtp")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
}
