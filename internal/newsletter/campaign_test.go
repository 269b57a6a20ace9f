// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package newsletter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

func query0() query.Criteria {
	return query.Criteria{}
}

func whereEmail(email string) query.Criteria {
	return query.Where(query.Eq("email", query.String, email))
}

func seedSubscriber(t *testing.T, f *fixture, email, status, frequency string) store.Document {
	t.Helper()
	doc, err := f.subscribers.Insert(context.Background(), store.Document{
		"email":       email,
		"status":      status,
		"bounceCount": 0,
		"preferences": map[string]any{"frequency": frequency, "categories": []any{"science"}},
	})
	require.NoError(t, err)
	return doc
}

func seedCampaign(t *testing.T, f *fixture, target map[string]any) store.Document {
	t.Helper()
	doc := store.Document{
		"title":   "Monthly picks",
		"subject": "This month on Biographies",
		"content": "<p>Ada Lovelace and friends.</p>",
		"status":  CampaignDraft,
	}
	if target != nil {
		doc["targetAudience"] = target
	}
	c, err := f.campaigns.Insert(context.Background(), doc)
	require.NoError(t, err)
	return c
}

func TestSendCampaign(t *testing.T) {
	f := newFixture(t, Config{Workers: 2})
	ctx := context.Background()

	seedSubscriber(t, f, "a@example.com", StatusSubscribed, "weekly")
	seedSubscriber(t, f, "b@example.com", StatusSubscribed, "weekly")
	seedSubscriber(t, f, "c@example.com", StatusSubscribed, "daily")
	seedSubscriber(t, f, "d@example.com", StatusPending, "weekly")

	c := seedCampaign(t, f, map[string]any{"frequency": []any{"weekly"}})

	started, err := f.svc.SendCampaign(ctx, c.ID())
	require.NoError(t, err)
	require.Equal(t, CampaignSending, started.String("status"))

	f.svc.Wait()

	msgs := f.outbox.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		require.Contains(t, []string{"a@example.com", "b@example.com"}, m.To)
		require.Equal(t, "This month on Biographies", m.Subject)
		require.Contains(t, m.Headers["List-Unsubscribe"], testURL+"/api/v1/newsletter/unsubscribe/")
	}

	done, err := f.campaigns.Get(ctx, c.ID())
	require.NoError(t, err)
	require.Equal(t, CampaignSent, done.String("status"))
	_, ok := done.Time("sentAt")
	require.True(t, ok)

	stats := store.Document(done["stats"].(map[string]any))
	require.Equal(t, float64(2), stats.Float("totalRecipients"))
	require.Equal(t, float64(2), stats.Float("sent"))
	require.Equal(t, float64(0), stats.Float("bounced"))

	a, err := f.subscribers.FindOne(ctx, whereEmail("a@example.com"))
	require.NoError(t, err)
	_, ok = a.Time("lastEmailSent")
	require.True(t, ok)

	_, err = f.svc.SendCampaign(ctx, c.ID())
	require.ErrorIs(t, err, ErrAlreadySent)

	_, err = f.svc.SendCampaign(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	cs, err := f.svc.CampaignStats(ctx)
	require.NoError(t, err)
	for _, s := range cs {
		if s.Status == CampaignSent {
			require.Equal(t, int64(1), s.Count)
			require.Equal(t, float64(2), s.TotalDelivered)
		}
	}
}

// slowReads holds each Get open until a second reader arrives or a short
// deadline passes, widening the gap between reading a campaign's status and
// updating it.
type slowReads struct {
	store.Collection
	readers atomic.Int32
}

func (s *slowReads) Get(ctx context.Context, id string) (store.Document, error) {
	s.readers.Add(1)
	deadline := time.Now().Add(200 * time.Millisecond)
	for s.readers.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return s.Collection.Get(ctx, id)
}

func TestSendCampaign_ConcurrentSendsDeliverOnce(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	seedSubscriber(t, f, "once@example.com", StatusSubscribed, "weekly")
	c := seedCampaign(t, f, nil)

	campaigns := &slowReads{Collection: f.campaigns}
	svc := NewService(f.subscribers, campaigns, f.outbox, Config{PublicURL: testURL, Secret: "test-secret", Rate: 1000, Burst: 100})
	t.Cleanup(svc.Close)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.SendCampaign(ctx, c.ID())
		}()
	}
	wg.Wait()
	svc.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrCampaignSending)
	}
	require.Equal(t, 1, succeeded)
	require.Len(t, f.outbox.Messages(), 1)

	done, err := f.campaigns.Get(ctx, c.ID())
	require.NoError(t, err)
	require.Equal(t, CampaignSent, done.String("status"))

	_, err = svc.SendCampaign(ctx, c.ID())
	require.ErrorIs(t, err, ErrAlreadySent, "the claim is released once delivery ends")
}

func TestSendCampaign_Bounces(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	sub := seedSubscriber(t, f, "gone@example.com", StatusSubscribed, "weekly")
	f.outbox.FailWith(errors.New("mailbox unavailable"))

	for i := 0; i < maxBounces; i++ {
		c := seedCampaign(t, f, nil)
		_, err := f.svc.SendCampaign(ctx, c.ID())
		require.NoError(t, err)
		f.svc.Wait()

		done, err := f.campaigns.Get(ctx, c.ID())
		require.NoError(t, err)
		stats := store.Document(done["stats"].(map[string]any))
		require.Equal(t, float64(1), stats.Float("bounced"))
	}

	doc, err := f.subscribers.Get(ctx, sub.ID())
	require.NoError(t, err)
	require.Equal(t, float64(maxBounces), doc.Float("bounceCount"))
	require.Equal(t, StatusBounced, doc.String("status"))

	// A bounced subscriber is outside the default audience.
	f.outbox.FailWith(nil)
	c := seedCampaign(t, f, nil)
	_, err = f.svc.SendCampaign(ctx, c.ID())
	require.NoError(t, err)
	f.svc.Wait()
	require.Empty(t, f.outbox.Messages())
}

func TestMatchesPreferences(t *testing.T) {
	sub := store.Document{"preferences": map[string]any{
		"frequency":  "weekly",
		"categories": []any{"science", "art"},
	}}

	tests := []struct {
		name        string
		frequencies []string
		categories  []string
		want        bool
	}{
		{"no target", nil, nil, true},
		{"frequency match", []string{"weekly", "daily"}, nil, true},
		{"frequency miss", []string{"daily"}, nil, false},
		{"category overlap", nil, []string{"art"}, true},
		{"category miss", nil, []string{"sport"}, false},
		{"both", []string{"weekly"}, []string{"science"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPreferences(sub, tt.frequencies, tt.categories); got != tt.want {
				t.Errorf("matchesPreferences() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	raw, hash, err := newToken()
	require.NoError(t, err)
	require.Len(t, raw, 64)
	require.Equal(t, HashToken(raw), hash)
	require.NotEqual(t, raw, hash)

	a := unsubscribeToken([]byte("k"), "id-1")
	require.Equal(t, a, unsubscribeToken([]byte("k"), "id-1"))
	require.NotEqual(t, a, unsubscribeToken([]byte("k"), "id-2"))
	require.NotEqual(t, a, unsubscribeToken([]byte("other"), "id-1"))
}
