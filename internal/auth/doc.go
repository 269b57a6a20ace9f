// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package auth provides token authentication for the API.

Key Components:

  - TokenManager: HS256 access tokens whose subject is the user id
  - Authenticator: resolves a request's bearer token (Authorization header
    first, then the token cookie) into a Principal
  - StorePrincipals: loads principals from the users collection
  - HashPassword/CheckPassword: bcrypt password storage

# Authentication Flow

	token := TokenFromRequest(r)       // ErrUnauthenticated if absent
	claims := tokens.Verify(token)     // ErrInvalidToken if bad or expired
	p := principals.LoadPrincipal(id)  // ErrPrincipalGone if deleted
	!p.Active                          // ErrAccountDisabled
	p.ChangedPasswordAfter(claims.iat) // ErrStaleCredentials

Every failure is one of the sentinel errors in errors.go; IsAuthFailure
reports whether an error should become a 401, and Message gives the client
text for each.

The Authenticator has no side effects. Attaching the principal to the
request context and enforcing roles is done by package authz.

# Logout

Logout overwrites the token cookie with LoggedOutCookieValue, which the
Authenticator treats as no token. Tokens sent in the Authorization header
stay valid until they expire or the password changes.
*/
package auth
