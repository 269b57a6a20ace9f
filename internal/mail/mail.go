// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package mail sends transactional and newsletter email.
//
// Callers depend on the Sender interface. Production uses SMTPSender behind
// a circuit breaker; with mail disabled a LogSender records what would have
// been sent; tests use an Outbox.
package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"sync"

	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/logging"
)

// ErrInvalidRecipient is returned for a missing or malformed To address.
var ErrInvalidRecipient = errors.New("invalid recipient")

// Message is one outgoing email. At least one of Text and HTML is set.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string

	// Headers are extra headers such as List-Unsubscribe.
	Headers map[string]string
}

// Validate checks the recipient address and that a body is present.
func (m *Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidRecipient)
	}
	if _, err := netmail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, err)
	}
	if m.Text == "" && m.HTML == "" {
		return errors.New("message body is required")
	}
	return nil
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// New returns the sender for cfg: SMTP when mail is enabled, otherwise a
// LogSender.
func New(cfg *config.MailConfig) Sender {
	if !cfg.Enabled {
		logging.Info().Msg("Mail disabled, outgoing messages are logged only")
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}

// LogSender logs messages instead of sending them.
type LogSender struct{}

// Send logs the recipient and subject.
func (LogSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Mail not sent (disabled)")
	return nil
}

// Outbox keeps sent messages in memory.
type Outbox struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// FailWith makes every later Send return err. A nil err restores delivery.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Send records msg.
func (o *Outbox) Send(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, *msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.msgs...)
}

// To returns the messages sent to addr.
func (o *Outbox) To(addr string) []Message {
	var out []Message
	for _, m := range o.Messages() {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}
