// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/authz"
	"github.com/tomtom215/biographer/internal/cache"
	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/eventprocessor"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/newsletter"
	"github.com/tomtom215/biographer/internal/ratelimit"
	"github.com/tomtom215/biographer/internal/store"
)

const (
	testPublicURL = "https://bio.test"
	testPassword  = "correct-horse"
	authLimit     = 5
)

// recordingPublisher keeps every published activity event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventprocessor.ActivityEvent
}

func (p *recordingPublisher) PublishActivity(_ context.Context, e *eventprocessor.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Events() []*eventprocessor.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*eventprocessor.ActivityEvent(nil), p.events...)
}

type testServer struct {
	t          *testing.T
	handler    http.Handler
	store      *store.MemoryStore
	tokens     *auth.TokenManager
	outbox     *mail.Outbox
	events     *recordingPublisher
	newsletter *newsletter.Service
	cfg        *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:  "test",
			QueryTimeout: 5 * time.Second,
			PublicURL:    testPublicURL,
		},
		API: config.APIConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:  "test-secret-test-secret-test-secret",
			TokenTTL:   time.Hour,
			CookieName: "jwt",
			BcryptCost: bcrypt.MinCost,
		},
		RateLimit: config.RateLimitConfig{
			API:        config.RateLimitRule{Window: time.Hour, Max: 1000, Message: "Too many requests"},
			Auth:       config.RateLimitRule{Window: time.Hour, Max: authLimit, Message: "Too many login attempts"},
			Newsletter: config.RateLimitRule{Window: time.Hour, Max: 100, Message: "Too many subscription attempts"},
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, testConfig())
}

func newTestServerWith(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	st := store.NewMemoryStore(Specs()...)
	tokens, err := auth.NewTokenManager(&cfg.Security)
	require.NoError(t, err)
	enforcer, err := authz.NewEnforcer("")
	require.NoError(t, err)

	outbox := mail.NewOutbox()
	events := &recordingPublisher{}
	svc := newsletter.NewService(
		st.Collection(newsletter.SubscribersSpec.Name),
		st.Collection(newsletter.CampaignsSpec.Name),
		outbox,
		newsletter.Config{PublicURL: cfg.Server.PublicURL, Secret: cfg.Security.JWTSecret, Rate: 1000, Burst: 100},
	)
	t.Cleanup(svc.Close)

	h := NewHandler(Dependencies{
		Config:     cfg,
		Store:      st,
		Tokens:     tokens,
		Enforcer:   enforcer,
		Limits:     ratelimit.NewSet(&cfg.RateLimit, nil),
		Cache:      cache.NewResponses(cache.NewMemory(), time.Minute),
		Events:     events,
		Mail:       outbox,
		Newsletter: svc,
	})

	return &testServer{
		t:          t,
		handler:    NewRouter(h).SetupChi(),
		store:      st,
		tokens:     tokens,
		outbox:     outbox,
		events:     events,
		newsletter: svc,
		cfg:        cfg,
	}
}

// seedUser stores an active account and returns its id and a valid token.
func (s *testServer) seedUser(email string, role auth.Role) (string, string) {
	s.t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(s.t, err)

	doc, err := s.store.Collection(CollectionUsers).Insert(context.Background(),
		models.UserDocument("Test", "User", email, hash, string(role), true))
	require.NoError(s.t, err)

	token, _, err := s.tokens.Issue(doc.ID())
	require.NoError(s.t, err)
	return doc.ID(), token
}

// do sends a request through the full router. body is JSON encoded unless
// nil.
func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody parses a JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// dataField returns data[key] of a success envelope.
func dataField(t *testing.T, rec *httptest.ResponseRecorder, key string) any {
	t.Helper()
	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	require.True(t, ok, "no data in %s", rec.Body.String())
	return data[key]
}

// tokenFromMail extracts the token of the first link for action in the
// messages sent to addr.
func (s *testServer) tokenFromMail(addr, action string) string {
	s.t.Helper()
	prefix := testPublicURL + "/api/v1/newsletter/" + action + "/"
	for _, msg := range s.outbox.To(addr) {
		for _, field := range strings.Fields(msg.Text) {
			if strings.HasPrefix(field, prefix) {
				return strings.TrimPrefix(field, prefix)
			}
		}
	}
	s.t.Fatalf("no %s link mailed to %s", action, addr)
	return ""
}

func biographyBody(title string) map[string]any {
	return map[string]any{
		"title":            title,
		"name":             title,
		"shortDescription": "A short description",
		"description":      "A much longer description of " + title,
		"tags":             []string{"science"},
		"featured":         true,
	}
}
