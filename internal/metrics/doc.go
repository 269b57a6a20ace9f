// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:5000/metrics

# Available Metrics

API:
  - api_requests_total{method, route, status_code}
  - api_request_duration_seconds{method, route}
  - api_active_requests
  - api_errors_total{kind}

Route labels use the chi route pattern (/api/v1/biographies/{slug}), never
the raw path, to keep cardinality bounded.

Store:
  - store_operation_duration_seconds{backend, operation, collection}
  - store_operation_errors_total{backend, operation, collection}

Request pipeline:
  - rate_limit_rejections_total{class}
  - response_cache_hits_total{backend}, response_cache_misses_total{backend}
  - response_cache_entries{backend}
  - response_cache_invalidated_total{backend}
  - auth_failures_total{reason}, auth_logins_total{result}

Side effects:
  - events_published_total{topic, result}, events_processed_total{topic, result}
  - mails_sent_total{result}, newsletter_deliveries_total{result}
  - circuit_breaker_state{name}: 0 closed, 1 half-open, 2 open

# Usage

	start := time.Now()
	doc, err := coll.Get(ctx, id)
	metrics.RecordStoreOperation("postgres", "get", "biographies", time.Since(start), err)
*/
package metrics
