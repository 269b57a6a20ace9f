// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

// Subscriber statuses.
const (
	StatusPending      = "pending"
	StatusSubscribed   = "subscribed"
	StatusUnsubscribed = "unsubscribed"
	StatusBounced      = "bounced"
)

// SubscriberStatuses lists every subscriber status.
var SubscriberStatuses = []string{StatusPending, StatusSubscribed, StatusUnsubscribed, StatusBounced}

// Collection specs.
var (
	SubscribersSpec = store.Spec{Name: "subscribers", Unique: []string{"email"}}
	CampaignsSpec   = store.Spec{Name: "campaigns"}
)

// maxBounces marks a subscriber bounced after this many failed deliveries.
const maxBounces = 3

// Config tunes the service.
type Config struct {
	// PublicURL prefixes verify and unsubscribe links, e.g.
	// https://biographies.example.
	PublicURL string

	// Secret keys unsubscribe tokens.
	Secret string

	// Rate and Burst throttle campaign sends, in messages per second.
	Rate  float64
	Burst int

	// Workers bounds concurrent SMTP sessions during a campaign.
	Workers int

	// VerificationTTL is how long a verification link stays valid.
	VerificationTTL time.Duration
}

// Service manages subscribers and campaign delivery.
type Service struct {
	subscribers store.Collection
	campaigns   store.Collection
	sender      mail.Sender

	publicURL       string
	secret          []byte
	limiter         *rate.Limiter
	workers         int
	verificationTTL time.Duration

	sending sync.Map // campaign id -> struct{} while a delivery runs

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates the newsletter service.
func NewService(subscribers, campaigns store.Collection, sender mail.Sender, cfg Config) *Service {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		subscribers:     subscribers,
		campaigns:       campaigns,
		sender:          sender,
		publicURL:       strings.TrimRight(cfg.PublicURL, "/"),
		secret:          []byte(cfg.Secret),
		limiter:         rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		workers:         cfg.Workers,
		verificationTTL: cfg.VerificationTTL,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// SubscribeRequest is a public subscription request.
type SubscribeRequest struct {
	Email       string
	Name        string
	Preferences map[string]any
	IPAddress   string
	UserAgent   string
	Source      string
}

// Subscribe creates or revives a pending subscriber and mails a
// verification link. A verified address is rejected.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (store.Document, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.subscribers.FindOne(ctx, query.Where(query.Eq("email", query.String, email)))
	switch {
	case err == nil && existing.String("status") == StatusSubscribed:
		return nil, ErrAlreadySubscribed
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	raw, hash, err := newToken()
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = "website"
	}
	fields := store.Document{
		"email":               email,
		"name":                strings.TrimSpace(req.Name),
		"status":              StatusPending,
		"verificationToken":   hash,
		"verificationExpires": time.Now().Add(s.verificationTTL),
		"metadata": map[string]any{
			"ipAddress": req.IPAddress,
			"userAgent": req.UserAgent,
			"source":    source,
		},
	}
	if req.Preferences != nil {
		fields["preferences"] = req.Preferences
	}

	var sub store.Document
	if existing != nil {
		sub, err = s.subscribers.Update(ctx, existing.ID(), fields)
	} else {
		fields["bounceCount"] = 0
		fields["preferences"] = withDefaultPreferences(req.Preferences)
		sub, err = s.subscribers.Insert(ctx, fields)
	}
	if err != nil {
		return nil, err
	}

	sub, err = s.subscribers.Update(ctx, sub.ID(), store.Document{
		"unsubscribeToken": HashToken(unsubscribeToken(s.secret, sub.ID())),
	})
	if err != nil {
		return nil, err
	}

	msg := mail.NewsletterVerification(email, sub.String("name"), s.link("verify", raw))
	if err := s.sender.Send(ctx, msg); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("subscriber_id", sub.ID()).Msg("Failed to send verification email")
		if _, clearErr := s.subscribers.Update(ctx, sub.ID(), store.Document{
			"verificationToken":   nil,
			"verificationExpires": nil,
		}); clearErr != nil {
			logging.Ctx(ctx).Error().Err(clearErr).Msg("Failed to clear verification token")
		}
		return nil, fmt.Errorf("%w: %v", ErrVerificationMail, err)
	}

	return sub, nil
}

// Verify confirms a subscription from its emailed token and sends a
// welcome email. A welcome failure is logged only.
func (s *Service) Verify(ctx context.Context, token string) (store.Document, error) {
	sub, err := s.subscribers.FindOne(ctx, query.Where(
		query.Eq("verificationToken", query.String, HashToken(token)),
		query.Condition{Field: "verificationExpires", Kind: query.Time, Op: query.OpGt, Value: time.Now()},
	))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidVerification
	}
	if err != nil {
		return nil, err
	}

	sub, err = s.subscribers.Update(ctx, sub.ID(), store.Document{
		"status":              StatusSubscribed,
		"bounceCount":         0,
		"verificationToken":   nil,
		"verificationExpires": nil,
	})
	if err != nil {
		return nil, err
	}

	welcome := mail.NewsletterWelcome(sub.String("email"), sub.String("name"), s.UnsubscribeURL(sub.ID()))
	if err := s.sender.Send(ctx, welcome); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("subscriber_id", sub.ID()).Msg("Failed to send welcome email")
	}
	return sub, nil
}

// Unsubscribe opts a subscriber out using the token from any newsletter.
func (s *Service) Unsubscribe(ctx context.Context, token string) (store.Document, error) {
	sub, err := s.subscribers.FindOne(ctx, query.Where(
		query.Eq("unsubscribeToken", query.String, HashToken(token)),
	))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidUnsubscribe
	}
	if err != nil {
		return nil, err
	}
	return s.subscribers.Update(ctx, sub.ID(), store.Document{"status": StatusUnsubscribed})
}

// UpdatePreferences replaces the preferences of the subscriber with email.
func (s *Service) UpdatePreferences(ctx context.Context, email string, prefs map[string]any) (store.Document, error) {
	sub, err := s.subscribers.FindOne(ctx, query.Where(
		query.Eq("email", query.String, strings.ToLower(email)),
	))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}
	return s.subscribers.Update(ctx, sub.ID(), store.Document{"preferences": withDefaultPreferences(prefs)})
}

// UnsubscribeURL returns the one-click unsubscribe link for a subscriber.
func (s *Service) UnsubscribeURL(subscriberID string) string {
	return s.link("unsubscribe", unsubscribeToken(s.secret, subscriberID))
}

func (s *Service) link(action, token string) string {
	return s.publicURL + "/api/v1/newsletter/" + action + "/" + token
}

// StatusCount is one row of a grouped count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SubscriberStats counts subscribers per status.
func (s *Service) SubscriberStats(ctx context.Context) ([]StatusCount, error) {
	out := make([]StatusCount, 0, len(SubscriberStatuses))
	for _, status := range SubscriberStatuses {
		n, err := s.subscribers.Count(ctx, query.Where(query.Eq("status", query.String, status)))
		if err != nil {
			return nil, err
		}
		out = append(out, StatusCount{Status: status, Count: n})
	}
	return out, nil
}

// Close stops campaigns in flight and waits for their workers.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until every campaign started so far has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func withDefaultPreferences(prefs map[string]any) map[string]any {
	out := map[string]any{"frequency": "weekly", "categories": []any{}}
	for k, v := range prefs {
		out[k] = v
	}
	return out
}
