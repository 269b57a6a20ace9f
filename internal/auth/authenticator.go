// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// PrincipalLoader resolves a principal by id. It returns
// ErrPrincipalNotFound for unknown ids.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, id string) (*Principal, error)
}

// Authenticator turns request credentials into a Principal. It has no side
// effects; the access gate attaches the result to the request context.
type Authenticator struct {
	tokens     *TokenManager
	principals PrincipalLoader
	cookieName string
}

// NewAuthenticator creates an authenticator reading bearer tokens from the
// Authorization header or the named cookie.
func NewAuthenticator(tokens *TokenManager, principals PrincipalLoader, cookieName string) *Authenticator {
	return &Authenticator{tokens: tokens, principals: principals, cookieName: cookieName}
}

// TokenFromRequest extracts the raw token. The Authorization header wins
// over the cookie.
func (a *Authenticator) TokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), nil
		}
	}
	if a.cookieName != "" {
		if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" && c.Value != LoggedOutCookieValue {
			return c.Value, nil
		}
	}
	return "", ErrUnauthenticated
}

// AuthenticateRequest extracts and authenticates the request's token.
func (a *Authenticator) AuthenticateRequest(r *http.Request) (*Principal, error) {
	raw, err := a.TokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	return a.Authenticate(r.Context(), raw)
}

// Authenticate verifies raw and resolves its principal. Checks run in order:
// signature and expiry, principal exists, principal active, credentials not
// changed since issuance.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	p, err := a.principals.LoadPrincipal(ctx, claims.Subject)
	if errors.Is(err, ErrPrincipalNotFound) {
		return nil, ErrPrincipalGone
	}
	if err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if !p.Active {
		return nil, ErrAccountDisabled
	}
	if p.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, ErrStaleCredentials
	}
	return p, nil
}

// LoggedOutCookieValue overwrites the token cookie on logout.
const LoggedOutCookieValue = "loggedout"
