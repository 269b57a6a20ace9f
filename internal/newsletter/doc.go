// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package newsletter runs double opt-in subscriptions and campaign delivery.

Subscription flow:

	POST /newsletter/subscribe      → pending, verification link mailed
	GET  /newsletter/verify/:token  → subscribed, welcome mailed
	GET  /newsletter/unsubscribe/:t → unsubscribed

Only SHA-256 hashes of tokens are stored. Verification tokens are random
and expire after 24 hours. Unsubscribe tokens are an HMAC of the subscriber
id, so every campaign email can carry a working link.

Campaigns are sent in the background. A golang.org/x/time/rate limiter
paces messages and an errgroup bounds concurrent SMTP sessions. A
subscriber whose deliveries fail three times is marked bounced and drops
out of the default audience.
*/
package newsletter
