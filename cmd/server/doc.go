// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package main is the entry point for the Biographer server.

Biographer is the content API behind a biography publishing site: public
biography, category, pricing and FAQ listings, member accounts with likes,
bookmarks and comments, a contact inbox, a newsletter with campaigns, and an
admin dashboard.

# Application Architecture

The server runs its long-lived components under a Suture v4 supervisor tree:

	RootSupervisor ("biographer")
	├── DataSupervisor ("data-layer")
	│   └── cache-sweeper (memory cache only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── event-router (activity log consumer)
	│   └── ratelimit-sweeper
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Document store: memory, BadgerDB or PostgreSQL
 4. Admin bootstrap: first admin account from ADMIN_EMAIL/ADMIN_PASSWORD
 5. Response cache: memory or Redis
 6. Event bus: Watermill over a Go channel or NATS
 7. Authentication and casbin role policy
 8. Mail sender and newsletter service
 9. Supervisor Tree and HTTP Server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	PORT=5000                    # HTTP server port
	NODE_ENV=production          # development or production
	PUBLIC_URL=https://site      # base for links in outgoing mail
	JWT_SECRET=<32+ chars>       # required
	JWT_EXPIRES_IN=2160h
	ADMIN_EMAIL=admin@site
	ADMIN_PASSWORD=<password>

	STORE_BACKEND=postgres       # memory, badger or postgres
	DATABASE_URL=postgres://...
	CACHE_BACKEND=redis          # memory or redis
	REDIS_URL=redis://...
	EVENTS_BACKEND=nats          # memory or nats
	NATS_EMBEDDED=true

	MAIL_ENABLED=true
	SMTP_HOST=smtp.example.com
	EMAIL_FROM="Biographer <no-reply@site>"

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10 seconds, campaign workers stop, and the event bus, cache and store
close in that order.
*/
package main
