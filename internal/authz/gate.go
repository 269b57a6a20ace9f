// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package authz

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/metrics"
)

// RequestAuthenticator resolves the principal behind a request.
type RequestAuthenticator interface {
	AuthenticateRequest(r *http.Request) (*auth.Principal, error)
}

// Gate protects route groups. Every middleware it returns has the
// func(http.Handler) http.Handler shape used by chi.
type Gate struct {
	authenticator RequestAuthenticator
	enforcer      *Enforcer
}

// NewGate creates a gate from an authenticator and the role policy.
func NewGate(authenticator RequestAuthenticator, enforcer *Enforcer) *Gate {
	return &Gate{authenticator: authenticator, enforcer: enforcer}
}

const (
	msgForbidden      = "You do not have permission to perform this action"
	msgSelfRoleChange = "You cannot change your own role"
)

// RequireAuth authenticates the request and stores the principal in the
// context. Authentication failures answer 401 with the failure message;
// loader faults answer 500.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.authenticator.AuthenticateRequest(r)
		if err != nil {
			if auth.IsAuthFailure(err) {
				metrics.RecordAuthFailure(auth.Reason(err))
			}
			response.Fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth attaches the principal when the request carries a valid
// token and otherwise serves the request anonymously.
func (g *Gate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.authenticator.AuthenticateRequest(r)
		if err == nil {
			r = r.WithContext(withPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits principals holding one of roles. It must run after
// RequireAuth; without a principal in the context it answers 401.
func (g *Gate) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				unauthenticated(w, r)
				return
			}
			if !principal.HasRole(roles...) {
				forbidden(w, r, "role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize evaluates the role policy for a route class, deriving the
// action from the HTTP method. It must run after RequireAuth.
func (g *Gate) Authorize(class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				unauthenticated(w, r)
				return
			}

			allowed, err := g.enforcer.Enforce(string(principal.Role), class, methodToAction(r.Method))
			if err != nil {
				response.Fail(w, r, err)
				return
			}
			if !allowed {
				forbidden(w, r, "policy")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ForbidSelfRoleChange rejects requests whose target id, read from the
// named URL parameter, is the acting principal.
func (g *Gate) ForbidSelfRoleChange(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				unauthenticated(w, r)
				return
			}
			if principal.ID == chi.URLParam(r, param) {
				metrics.RecordAuthFailure("self_role_change")
				response.Fail(w, r, response.Forbidden(msgSelfRoleChange))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	ctx = auth.ContextWithPrincipal(ctx, p)
	return logging.ContextWithActorID(ctx, p.ID)
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	metrics.RecordAuthFailure(auth.Reason(auth.ErrUnauthenticated))
	response.Fail(w, r, auth.ErrUnauthenticated)
}

func forbidden(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.RecordAuthFailure("forbidden_" + reason)
	response.Fail(w, r, response.Forbidden(msgForbidden))
}
