// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/newsletter"
)

func TestNewsletterSubscribeVerifyUnsubscribe(t *testing.T) {
	s := newTestServer(t)
	const addr = "reader@example.com"

	rec := s.do(http.MethodPost, "/api/v1/newsletter/subscribe", map[string]any{
		"email":       addr,
		"name":        "Reader",
		"preferences": map[string]any{"frequency": "monthly"},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	verify := s.tokenFromMail(addr, "verify")
	rec = s.do(http.MethodGet, "/api/v1/newsletter/verify/"+verify, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/newsletter/verify/"+verify, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/newsletter/subscribe", map[string]any{"email": addr}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	unsubscribe := s.tokenFromMail(addr, "unsubscribe")
	rec = s.do(http.MethodGet, "/api/v1/newsletter/unsubscribe/"+unsubscribe, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/newsletter/unsubscribe/bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsletterVerificationMailFailure(t *testing.T) {
	s := newTestServer(t)
	s.outbox.FailWith(errors.New("smtp down"))

	rec := s.do(http.MethodPost, "/api/v1/newsletter/subscribe", map[string]any{"email": "reader@example.com"}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewsletterPreferencesRequireSubscription(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser("reader@example.com", auth.RoleUser)

	prefs := map[string]any{"frequency": "daily"}
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPatch, "/api/v1/newsletter/preferences", prefs, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, "/api/v1/newsletter/preferences", prefs, token).Code)

	s.do(http.MethodPost, "/api/v1/newsletter/subscribe", map[string]any{"email": "reader@example.com"}, "")
	rec := s.do(http.MethodPatch, "/api/v1/newsletter/preferences", prefs, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sub := dataField(t, rec, "subscriber").(map[string]any)
	assert.Equal(t, "daily", sub["preferences"].(map[string]any)["frequency"])
	assert.NotContains(t, sub, "verificationToken")
}

func TestCampaignLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser("admin@example.com", auth.RoleAdmin)
	_, userToken := s.seedUser("reader@example.com", auth.RoleUser)

	s.do(http.MethodPost, "/api/v1/newsletter/subscribe", map[string]any{"email": "fan@example.com"}, "")
	s.do(http.MethodGet, "/api/v1/newsletter/verify/"+s.tokenFromMail("fan@example.com", "verify"), nil, "")

	campaign := map[string]any{"subject": "Monthly digest", "title": "Digest", "content": "<p>Hello</p>"}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/newsletter/campaigns", campaign, userToken).Code)

	rec := s.do(http.MethodPost, "/api/v1/newsletter/campaigns", campaign, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := dataField(t, rec, "campaign").(map[string]any)["id"].(string)

	rec = s.do(http.MethodPost, "/api/v1/newsletter/campaigns/"+id+"/send", nil, adminToken)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	s.newsletter.Wait()

	require.Len(t, s.outbox.To("fan@example.com"), 3)

	rec = s.do(http.MethodPatch, "/api/v1/newsletter/campaigns/"+id, map[string]any{"title": "Edited"}, adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/newsletter/campaigns/"+id+"/send", nil, adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/newsletter/stats/subscribers", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataField(t, rec, "stats"), len(newsletter.SubscriberStatuses))
}
