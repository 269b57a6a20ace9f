// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/store"
)

// Bus backends.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Bus groups the publisher, subscriber and router of one backend, plus the
// embedded NATS server when one was started.
type Bus struct {
	Publisher  *Publisher
	Subscriber message.Subscriber
	Router     *Router

	backend string
	server  *EmbeddedServer
}

// NewBus builds the event bus for cfg. The memory backend is an in-process
// Go channel; the nats backend connects to cfg.NATSURL or to an embedded
// server started here.
func NewBus(cfg *config.EventsConfig) (*Bus, error) {
	logger := logging.NewWatermillLogger()
	breaker := NewCircuitBreaker(DefaultCircuitBreakerConfig("events"))

	b := &Bus{backend: cfg.Backend}

	var (
		pub message.Publisher
		sub message.Subscriber
	)

	switch cfg.Backend {
	case "", BackendMemory:
		b.backend = BackendMemory
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		pub, sub = ch, ch

	case BackendNATS:
		url := cfg.NATSURL
		if cfg.EmbeddedServer {
			srv, err := NewEmbeddedServer(ServerConfig{Host: "127.0.0.1", Port: cfg.EmbeddedPort})
			if err != nil {
				return nil, err
			}
			b.server = srv
			url = srv.ClientURL()
			logging.Info().Str("url", url).Msg("Embedded NATS server started")
		}

		var err error
		if pub, err = NewNATSPublisher(url, logger); err != nil {
			b.shutdownServer()
			return nil, err
		}
		if sub, err = NewNATSSubscriber(url, cfg.QueueGroup, logger); err != nil {
			_ = pub.Close()
			b.shutdownServer()
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown events backend %q", ErrInvalidConfig, cfg.Backend)
	}

	publisher, err := NewPublisher(pub, breaker)
	if err != nil {
		return nil, err
	}
	router, err := NewRouter(nil, logger)
	if err != nil {
		_ = publisher.Close()
		_ = sub.Close()
		b.shutdownServer()
		return nil, err
	}

	b.Publisher = publisher
	b.Subscriber = sub
	b.Router = router

	logging.Info().Str("backend", b.backend).Msg("Event bus initialized")
	return b, nil
}

// NewMemoryBus builds an in-process bus around logger. Used by tests.
func NewMemoryBus(logger watermill.LoggerAdapter) (*Bus, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
	publisher, err := NewPublisher(ch, nil)
	if err != nil {
		return nil, err
	}
	router, err := NewRouter(&RouterConfig{
		CloseTimeout:         5 * time.Second,
		RetryMaxRetries:      1,
		RetryInitialInterval: 10 * time.Millisecond,
		RetryMaxInterval:     10 * time.Millisecond,
		RetryMultiplier:      1,
	}, logger)
	if err != nil {
		return nil, err
	}
	return &Bus{Publisher: publisher, Subscriber: ch, Router: router, backend: BackendMemory}, nil
}

// Backend returns the backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// RecordActivities subscribes an ActivityRecorder writing to activities.
func (b *Bus) RecordActivities(activities store.Collection) {
	recorder := NewActivityRecorder(activities)
	b.Router.AddConsumerHandler("activity-recorder", TopicActivity, b.Subscriber, recorder.Handle)
}

// Close stops the router and releases every connection.
func (b *Bus) Close() error {
	var errs []error
	if err := b.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	if err := b.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := b.Subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	b.shutdownServer()
	return errors.Join(errs...)
}

func (b *Bus) shutdownServer() {
	if b.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS server shutdown timed out")
	}
	b.server = nil
}
