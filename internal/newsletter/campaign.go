// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package newsletter

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/metrics"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignFailed    = "failed"
)

// CampaignStatuses lists every campaign status.
var CampaignStatuses = []string{CampaignDraft, CampaignScheduled, CampaignSending, CampaignSent, CampaignFailed}

// audiencePage is the page size used when loading recipients.
const audiencePage = 100

// SendCampaign marks the campaign as sending and delivers it in the
// background. It returns as soon as delivery has started.
//
// The campaign is claimed in process before its status is read and stays
// claimed until the final status is stored, so concurrent sends of one
// campaign start exactly one delivery.
func (s *Service) SendCampaign(ctx context.Context, id string) (store.Document, error) {
	if _, busy := s.sending.LoadOrStore(id, struct{}{}); busy {
		return nil, ErrCampaignSending
	}
	started := false
	defer func() {
		if !started {
			s.sending.Delete(id)
		}
	}()

	campaign, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch campaign.String("status") {
	case CampaignSent:
		return nil, ErrAlreadySent
	case CampaignSending:
		return nil, ErrCampaignSending
	}

	campaign, err = s.campaigns.Update(ctx, id, store.Document{"status": CampaignSending})
	if err != nil {
		return nil, err
	}

	logger := logging.Ctx(ctx).With().Str("campaign_id", id).Logger()
	s.wg.Add(1)
	started = true
	go func() {
		defer s.wg.Done()
		defer s.sending.Delete(id)
		s.deliver(logging.ContextWithLogger(s.ctx, logger), campaign)
	}()

	return campaign, nil
}

// deliver sends campaign to its audience, throttled by the service limiter
// and bounded by the worker count, then records stats and the final status.
func (s *Service) deliver(ctx context.Context, campaign store.Document) {
	logger := logging.Ctx(ctx)
	id := campaign.ID()

	audience, err := s.audience(ctx, campaign)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load campaign audience")
		s.finish(ctx, id, CampaignFailed, campaignStats(campaign, 0, 0, 0))
		return
	}

	logger.Info().Int("recipients", len(audience)).Msg("Sending campaign")

	var sent, bounced atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for _, sub := range audience {
		if err := s.limiter.Wait(ctx); err != nil {
			logger.Warn().Err(err).Msg("Campaign delivery interrupted")
			break
		}
		g.Go(func() error {
			if s.sendOne(ctx, campaign, sub) {
				sent.Add(1)
			} else {
				bounced.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	status := CampaignSent
	if ctx.Err() != nil {
		status = CampaignFailed
	}
	s.finish(ctx, id, status, campaignStats(campaign, len(audience), sent.Load(), bounced.Load()))

	logger.Info().
		Int64("sent", sent.Load()).
		Int64("bounced", bounced.Load()).
		Str("status", status).
		Msg("Campaign finished")
}

// sendOne delivers one message and updates the subscriber's delivery
// bookkeeping. It reports whether the send succeeded.
func (s *Service) sendOne(ctx context.Context, campaign, sub store.Document) bool {
	msg := mail.Campaign(
		sub.String("email"),
		campaign.String("subject"),
		campaign.String("title"),
		campaign.String("content"),
		s.UnsubscribeURL(sub.ID()),
	)

	err := s.sender.Send(ctx, msg)
	metrics.RecordNewsletterDelivery(err)

	// Bookkeeping must survive a shutdown that interrupted the send.
	bookCtx := context.WithoutCancel(ctx)

	if err == nil {
		if _, uerr := s.subscribers.Update(bookCtx, sub.ID(), store.Document{"lastEmailSent": time.Now()}); uerr != nil {
			logging.Ctx(ctx).Warn().Err(uerr).Str("subscriber_id", sub.ID()).Msg("Failed to record delivery")
		}
		return true
	}

	logging.Ctx(ctx).Warn().Err(err).Str("subscriber_id", sub.ID()).Msg("Newsletter delivery failed")
	updated, uerr := s.subscribers.Increment(bookCtx, sub.ID(), "bounceCount", 1)
	if uerr != nil {
		logging.Ctx(ctx).Warn().Err(uerr).Str("subscriber_id", sub.ID()).Msg("Failed to record bounce")
		return false
	}
	if updated.Float("bounceCount") >= maxBounces {
		if _, uerr := s.subscribers.Update(bookCtx, sub.ID(), store.Document{"status": StatusBounced}); uerr != nil {
			logging.Ctx(ctx).Warn().Err(uerr).Str("subscriber_id", sub.ID()).Msg("Failed to mark subscriber bounced")
		}
	}
	return false
}

func (s *Service) finish(ctx context.Context, id, status string, stats map[string]any) {
	patch := store.Document{"status": status, "stats": stats}
	if status == CampaignSent {
		patch["sentAt"] = time.Now()
	}
	if _, err := s.campaigns.Update(context.WithoutCancel(ctx), id, patch); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to record campaign result")
	}
}

// audience loads the subscribers targeted by campaign: every subscriber
// whose status is in targetAudience.status (default subscribed) and, when
// set, whose preferred frequency and categories intersect the target.
func (s *Service) audience(ctx context.Context, campaign store.Document) ([]store.Document, error) {
	target, _ := campaign["targetAudience"].(map[string]any)
	t := store.Document(target)

	statuses := t.Strings("status")
	if len(statuses) == 0 {
		statuses = []string{StatusSubscribed}
	}
	frequencies := t.Strings("frequency")
	categories := t.Strings("categories")

	var out []store.Document
	for _, status := range statuses {
		criteria := query.Where(query.Eq("status", query.String, status))
		for page := 1; ; page++ {
			docs, err := s.subscribers.Find(ctx, query.NewDescriptor(criteria, nil, page, audiencePage))
			if err != nil {
				return nil, err
			}
			for _, sub := range docs {
				if matchesPreferences(sub, frequencies, categories) {
					out = append(out, sub)
				}
			}
			if len(docs) < audiencePage {
				break
			}
		}
	}
	return out, nil
}

func matchesPreferences(sub store.Document, frequencies, categories []string) bool {
	prefs, _ := sub["preferences"].(map[string]any)
	p := store.Document(prefs)

	if len(frequencies) > 0 && !containsAny(frequencies, []string{p.String("frequency")}) {
		return false
	}
	if len(categories) > 0 && !containsAny(categories, p.Strings("categories")) {
		return false
	}
	return true
}

func containsAny(want, have []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// campaignStats merges delivery counts into the stored stats object.
func campaignStats(campaign store.Document, recipients int, sent, bounced int64) map[string]any {
	prev, _ := campaign["stats"].(map[string]any)
	p := store.Document(prev)

	return map[string]any{
		"totalRecipients": float64(recipients),
		"sent":            p.Float("sent") + float64(sent),
		"delivered":       p.Float("delivered") + float64(sent),
		"bounced":         p.Float("bounced") + float64(bounced),
		"opened":          p.Float("opened"),
		"clicked":         p.Float("clicked"),
		"unsubscribed":    p.Float("unsubscribed"),
	}
}

// CampaignStat groups campaigns by status.
type CampaignStat struct {
	Status          string  `json:"status"`
	Count           int64   `json:"count"`
	TotalRecipients float64 `json:"totalRecipients"`
	TotalDelivered  float64 `json:"totalDelivered"`
	TotalOpened     float64 `json:"totalOpened"`
	TotalClicked    float64 `json:"totalClicked"`
}

// CampaignStats aggregates campaign stats per status.
func (s *Service) CampaignStats(ctx context.Context) ([]CampaignStat, error) {
	out := make([]CampaignStat, 0, len(CampaignStatuses))
	for _, status := range CampaignStatuses {
		stat := CampaignStat{Status: status}
		criteria := query.Where(query.Eq("status", query.String, status))
		for page := 1; ; page++ {
			docs, err := s.campaigns.Find(ctx, query.NewDescriptor(criteria, nil, page, audiencePage))
			if err != nil {
				return nil, err
			}
			for _, c := range docs {
				st, _ := c["stats"].(map[string]any)
				d := store.Document(st)
				stat.Count++
				stat.TotalRecipients += d.Float("totalRecipients")
				stat.TotalDelivered += d.Float("delivered")
				stat.TotalOpened += d.Float("opened")
				stat.TotalClicked += d.Float("clicked")
			}
			if len(docs) < audiencePage {
				break
			}
		}
		out = append(out, stat)
	}
	return out, nil
}
