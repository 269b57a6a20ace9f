// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package auth

import (
	"context"
	"time"
)

// Role is a principal's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Role              Role
	Active            bool
	PasswordChangedAt time.Time
}

// HasRole reports whether the principal holds any of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// ChangedPasswordAfter reports whether credentials changed after a token
// issued at issuedAt. Token times are decoded from a float and can read one
// TokenTimePrecision unit early, so that much slack is allowed.
func (p *Principal) ChangedPasswordAfter(issuedAt time.Time) bool {
	if p.PasswordChangedAt.IsZero() {
		return false
	}
	return p.PasswordChangedAt.After(issuedAt.Add(TokenTimePrecision))
}

type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal attaches p to ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal attached by the access gate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok && p != nil
}
