// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/eventprocessor"
	"github.com/tomtom215/biographer/internal/metrics"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

const (
	msgBadCredentials   = "Incorrect email or password"
	msgAdminOnly        = "Access denied. Admin privileges required."
	msgWrongPassword    = "Your current password is wrong"
	msgRegistrationOff  = "Registration is currently disabled"
	loggedOutCookieLife = 10 * time.Second
)

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	settings, err := h.currentSettings(ctx)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if general, ok := settings["general"].(map[string]any); ok && general["registrationEnabled"] == false {
		response.Fail(w, r, response.Forbidden(msgRegistrationOff))
		return
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	user, err := h.users.Insert(ctx, models.UserDocument(
		req.FirstName, req.LastName, req.Email, hash, string(auth.RoleUser), true,
	))
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	h.security.LogRegistration(user.ID(), user.String(auth.FieldEmail), r.RemoteAddr)
	h.sendToken(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

// AdminLogin handles POST /auth/admin/login. Valid credentials without the
// admin role are rejected with 403.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	var req models.LoginRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	user, err := h.users.FindOne(ctx, query.Where(
		query.Eq(auth.FieldEmail, query.String, models.NormalizeEmail(req.Email)),
	))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		response.Fail(w, r, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.String(auth.FieldPassword), req.Password) {
		metrics.RecordLogin(false)
		h.security.LogLoginFailure(req.Email, r.RemoteAddr, r.UserAgent(), "bad_credentials")
		response.Fail(w, r, response.Unauthenticated(msgBadCredentials))
		return
	}

	p := auth.PrincipalFromDocument(user)
	if !p.Active {
		metrics.RecordLogin(false)
		h.security.LogLoginFailure(req.Email, r.RemoteAddr, r.UserAgent(), "account_disabled")
		response.Fail(w, r, auth.ErrAccountDisabled)
		return
	}
	if adminOnly && !p.HasRole(auth.RoleAdmin) {
		metrics.RecordLogin(false)
		h.security.LogLoginFailure(req.Email, r.RemoteAddr, r.UserAgent(), "not_admin")
		response.Fail(w, r, response.Forbidden(msgAdminOnly))
		return
	}

	metrics.RecordLogin(true)
	h.security.LogLoginSuccess(p.ID, p.Email, r.RemoteAddr, r.UserAgent())
	h.publishActivity(r, eventprocessor.NewActivityEvent(p.ID, eventprocessor.ActionLogin, "auth"))
	h.sendToken(w, r, http.StatusOK, user)
}

// Logout handles GET /auth/logout by overwriting the token cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if p := principal(r); p != nil {
		h.security.LogLogout(p.ID, r.RemoteAddr)
	}
	if name := h.config.Security.CookieName; name != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    auth.LoggedOutCookieValue,
			Path:     "/",
			Expires:  time.Now().Add(loggedOutCookieLife),
			HttpOnly: true,
			Secure:   h.config.Security.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	response.Success(w, &response.Envelope{Status: response.StatusSuccess})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	user, err := h.users.Get(ctx, principal(r).ID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"user": public(h.schemas.users, user)}))
}

// UpdatePassword handles PATCH /auth/update-password. Tokens issued before
// the change stop authenticating; the response carries a fresh one.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePasswordRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	id := principal(r).ID
	user, err := h.users.Get(ctx, id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if !auth.CheckPassword(user.String(auth.FieldPassword), req.PasswordCurrent) {
		h.security.LogPasswordChange(id, r.RemoteAddr, false, "wrong_current_password")
		response.Fail(w, r, response.Unauthenticated(msgWrongPassword))
		return
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	user, err = h.users.Update(ctx, id, store.Document{
		auth.FieldPassword:          hash,
		auth.FieldPasswordChangedAt: store.Timestamp(store.Now()),
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	h.security.LogPasswordChange(id, r.RemoteAddr, true, "")
	h.sendToken(w, r, http.StatusOK, user)
}

// sendToken issues a token for user, sets the token cookie and writes the
// token envelope.
func (h *Handler) sendToken(w http.ResponseWriter, r *http.Request, status int, user store.Document) {
	token, expiresAt, err := h.tokens.Issue(user.ID())
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if name := h.config.Security.CookieName; name != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   h.config.Security.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	response.JSON(w, status, response.WithToken(token, response.Data{"user": public(h.schemas.users, user)}))
}
