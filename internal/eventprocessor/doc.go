// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package eventprocessor carries activity events from request handlers to the
activities collection over a Watermill message bus.

# Flow

	handler ──PublishActivity──► Publisher ──(circuit breaker)──► topic "activity"
	                                                                   │
	activities collection ◄──Insert── ActivityRecorder ◄── Router ◄────┘

Publishing never blocks a request on the consumer. A failed publish is
logged by the caller and swallowed; the request has already succeeded.

# Backends

  - memory: a gochannel pub/sub inside the process. Events are lost on
    restart, which is acceptable for an audit trail of a single instance.
  - nats: core NATS through watermill-nats. Set NATS_EMBEDDED=true to run
    an embedded nats-server in the API process, or point NATS_URL at
    an external cluster. The subscriber joins a queue group so each event is
    recorded once across replicas.

# Delivery

The Router retries a failing handler with exponential backoff and recovers
panics. ActivityRecorder drops payloads that cannot be decoded, and treats
a duplicate eventId as already recorded, so redelivery is idempotent.

# Circuit Breaker

The publisher runs through a gobreaker circuit breaker named "events". After
five consecutive failures it opens for 30 seconds and publishes fail fast
with gobreaker.ErrOpenState. The state is exported as the
circuit_breaker_state gauge.
*/
package eventprocessor
