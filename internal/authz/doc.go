// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package authz is the access gate in front of protected routes.
//
//	Request -> Gate.RequireAuth -> Gate.Authorize / Gate.RequireRole -> Handler
//	               |                         |
//	          Authenticate             Casbin role policy
//	          (internal/auth)          (this package)
//
// # Role Policy
//
// Access is decided per route class rather than per path. The embedded
// policy.csv is the whole table:
//
//	p, user, profile, read
//	p, user, engagement, write
//	...
//	p, admin, *, *
//	g, admin, user
//
// The subject is the principal's role; the action is derived from the HTTP
// method (GET read, POST/PUT/PATCH write, DELETE delete). SecurityConfig
// PolicyPath replaces the embedded table with an operator-supplied CSV.
//
// # Failures
//
//   - no or invalid token: 401 with the authentication failure message
//   - authenticated but not allowed: 403
//   - acting on one's own role: 403
package authz
