// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

	RootSupervisor ("biographer")
	├── DataSupervisor ("data-layer")
	│   ├── cache-sweeper       (memory cache backend only)
	│   └── ratelimit-sweeper
	├── MessagingSupervisor ("messaging-layer")
	│   └── event-router        (activity events into the activities collection)
	└── APISupervisor ("api-layer")
	    └── http-server

Each layer counts failures on its own, so a router crash loop backs off
without touching the HTTP server. Lifecycle events are logged through
sutureslog using the slog bridge from the logging package.

Usage in main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	tree.AddMessagingService(services.NewEventRouterService(bus.Router))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Services live in the services subpackage.
*/
package supervisor
