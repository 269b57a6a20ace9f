// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package auth

import "errors"

// Authentication failures. All of them map to 401.
var (
	// ErrUnauthenticated means the request carried no token.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrInvalidToken means the token is malformed, tampered or expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrPrincipalGone means the token's principal no longer exists.
	ErrPrincipalGone = errors.New("principal no longer exists")

	// ErrAccountDisabled means the principal is marked inactive.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrStaleCredentials means the password changed after the token was issued.
	ErrStaleCredentials = errors.New("credentials changed after token was issued")

	// ErrPrincipalNotFound is returned by a PrincipalLoader for unknown ids.
	ErrPrincipalNotFound = errors.New("principal not found")
)

type failure struct {
	err     error
	reason  string
	message string
}

var failures = []failure{
	{ErrUnauthenticated, "unauthenticated", "You are not logged in! Please log in to get access."},
	{ErrInvalidToken, "invalid_token", "Invalid token. Please log in again!"},
	{ErrPrincipalGone, "principal_gone", "The user belonging to this token no longer exists."},
	{ErrAccountDisabled, "account_disabled", "Your account has been deactivated. Please contact support."},
	{ErrStaleCredentials, "stale_credentials", "User recently changed password! Please log in again."},
}

func lookup(err error) failure {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return f
		}
	}
	return failures[1]
}

// Reason returns a short machine-readable label for an authentication
// failure, used in error bodies and metrics.
func Reason(err error) string {
	return lookup(err).reason
}

// Message returns the client-facing message for an authentication failure.
func Message(err error) string {
	return lookup(err).message
}

// IsAuthFailure reports whether err is one of the authentication failures
// above, as opposed to an infrastructure fault.
func IsAuthFailure(err error) bool {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return true
		}
	}
	return false
}
