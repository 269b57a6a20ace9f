// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/biographer/internal/api"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/authz"
	"github.com/tomtom215/biographer/internal/cache"
	"github.com/tomtom215/biographer/internal/config"
	"github.com/tomtom215/biographer/internal/eventprocessor"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/newsletter"
	"github.com/tomtom215/biographer/internal/ratelimit"
	"github.com/tomtom215/biographer/internal/supervisor"
	"github.com/tomtom215/biographer/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("store", cfg.Store.Backend).
		Str("cache", cfg.Cache.Backend).
		Str("events", cfg.Events.Backend).
		Msg("Starting Biographer with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, &cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	created, err := bootstrapAdmin(ctx, st.Collection(api.CollectionUsers), &cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}
	if created {
		logging.Info().Str("email", logging.SanitizeEmail(cfg.Security.AdminEmail)).Msg("Admin account created")
	}

	cacher, err := openCache(ctx, &cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open response cache")
	}
	if closer, ok := cacher.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing cache")
			}
		}()
	}

	bus, err := eventprocessor.NewBus(&cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	bus.RecordActivities(st.Collection(eventprocessor.ActivitiesSpec.Name))

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	enforcer, err := authz.NewEnforcer(cfg.Security.PolicyPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization policy")
	}

	sender := mail.New(&cfg.Mail)
	letters := newsletter.NewService(
		st.Collection(newsletter.SubscribersSpec.Name),
		st.Collection(newsletter.CampaignsSpec.Name),
		sender,
		newsletter.Config{
			PublicURL: cfg.Server.PublicURL,
			Secret:    cfg.Security.JWTSecret,
			Rate:      cfg.Mail.NewsletterRate,
			Burst:     cfg.Mail.NewsletterBurst,
		},
	)

	limits := ratelimit.NewSet(&cfg.RateLimit, cfg.Security.TrustedProxies)

	handler := api.NewHandler(api.Dependencies{
		Config:     cfg,
		Store:      st,
		Tokens:     tokens,
		Enforcer:   enforcer,
		Limits:     limits,
		Cache:      cache.NewResponses(cacher, cfg.Cache.DefaultTTL),
		Events:     bus.Publisher,
		Mail:       sender,
		Newsletter: letters,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler).SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridges zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if m, ok := cacher.(*cache.Memory); ok {
		tree.AddDataService(services.NewSweeperService("cache-sweeper", cfg.Cache.SweepInterval, m.Sweep))
	}
	tree.AddMessagingService(services.NewEventRouterService(bus.Router))
	tree.AddMessagingService(services.NewSweeperService("ratelimit-sweeper", time.Minute, limits.Sweep))

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Campaign workers stop before the store closes.
	letters.Close()

	logging.Info().Msg("Application stopped gracefully")
}
