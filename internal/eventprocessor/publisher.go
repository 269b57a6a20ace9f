// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/biographer/internal/metrics"
)

// Publisher wraps a Watermill publisher with circuit breaker protection.
type Publisher struct {
	publisher  message.Publisher
	breaker    *gobreaker.CircuitBreaker[any]
	serializer *Serializer
	mu         sync.RWMutex
	closed     bool
}

// NewPublisher wraps pub. breaker may be nil.
func NewPublisher(pub message.Publisher, breaker *gobreaker.CircuitBreaker[any]) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{
		publisher:  pub,
		breaker:    breaker,
		serializer: NewSerializer(),
	}, nil
}

// NewNATSPublisher creates a core NATS Watermill publisher. Activity events
// are fire-and-forget, so JetStream is not used.
func NewNATSPublisher(url string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: connectionOptions("publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true,
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// connectionOptions returns reconnect-forever options shared by publisher
// and subscriber connections.
func connectionOptions(role string, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("biographer-" + role),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, watermill.LogFields{"role": role})
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"role": role,
				"url":  nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{"role": role}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}
}

// Publish sends a message to topic through the circuit breaker.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg.SetContext(ctx)

	if p.breaker == nil {
		return p.publisher.Publish(topic, msg)
	}
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	return err
}

// PublishActivity serializes and publishes an activity event.
func (p *Publisher) PublishActivity(ctx context.Context, event *ActivityEvent) error {
	data, err := p.serializer.Marshal(event)
	if err != nil {
		metrics.RecordEventPublished(TopicActivity, err)
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("actor_id", event.ActorID)
	msg.Metadata.Set("action", event.Action)
	msg.Metadata.Set("resource", event.Resource)

	err = p.Publish(ctx, TopicActivity, msg)
	metrics.RecordEventPublished(TopicActivity, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", TopicActivity, err)
	}
	return nil
}

// Close shuts down the underlying publisher. It is safe to call twice.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
