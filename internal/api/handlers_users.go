// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package api

import (
	"crypto/rand"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/biographer/internal/api/response"
	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/mail"
	"github.com/tomtom215/biographer/internal/models"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

const (
	msgSelfDelete    = "You cannot delete your own account"
	msgSelfDisable   = "You cannot change the status of your own account"
	msgPasswordReset = "A temporary password was sent to the user's email"
)

// roleStats counts the accounts holding one role.
type roleStats struct {
	Role   string `json:"role"`
	Count  int64  `json:"count"`
	Active int64  `json:"active"`
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.users, h.schemas.users)
}

// CreateUser handles POST /users. Role defaults to user and accounts start
// active unless the request says otherwise.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	role := req.Role
	if role == "" {
		role = string(auth.RoleUser)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.users.Insert(ctx, models.UserDocument(req.FirstName, req.LastName, req.Email, hash, role, active))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.OK(response.Data{"user": public(h.schemas.users, doc)}))
}

// UserStats handles GET /users/stats: accounts and active accounts per
// role.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	roles := []auth.Role{auth.RoleUser, auth.RoleAdmin}
	stats := make([]roleStats, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		stats[i].Role = string(role)
		byRole := query.Eq(auth.FieldRole, query.String, string(role))
		g.Go(func() error {
			n, err := h.users.Count(gctx, query.Where(byRole))
			stats[i].Count = n
			return err
		})
		g.Go(func() error {
			n, err := h.users.Count(gctx, query.Where(byRole, query.Eq(auth.FieldActive, query.Bool, true)))
			stats[i].Active = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"stats": stats}))
}

// UserActivities handles GET /users/{id}/activities: the audit trail of
// one account, newest first.
func (h *Handler) UserActivities(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.activities, h.schemas.activities, query.Eq("actorId", query.ID, param(r, "id")))
}

// ResetUserPassword handles POST /users/{id}/reset-password. The account
// gets a random temporary password, mailed to its owner and never returned
// to the caller. Tokens issued before the reset stop authenticating.
func (h *Handler) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")

	ctx, cancel := h.queryContext(r)
	defer cancel()

	user, err := h.users.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("user")
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	temporary := rand.Text()
	hash, err := auth.HashPassword(temporary, h.config.Security.BcryptCost)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if _, err = h.users.Update(ctx, id, store.Document{
		auth.FieldPassword:          hash,
		auth.FieldPasswordChangedAt: store.Timestamp(store.Now()),
	}); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.security.LogPasswordReset(principal(r).ID, id, r.RemoteAddr)

	msg := mail.TemporaryPassword(user.String(auth.FieldEmail), user.String(auth.FieldFirstName), temporary)
	if err := h.mail.Send(ctx, msg); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Message(msgPasswordReset))
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.users, h.schemas.users, "user", "user")
}

// UpdateUser handles PATCH /users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}
	if req.Active != nil && !*req.Active && param(r, "id") == principal(r).ID {
		response.Fail(w, r, response.Forbidden(msgSelfDisable))
		return
	}
	h.updateByID(w, r, h.users, h.schemas.users, "user", "user", req.Patch())
}

// DeleteUser handles DELETE /users/{id}. Admins cannot delete themselves.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if param(r, "id") == principal(r).ID {
		response.Fail(w, r, response.Forbidden(msgSelfDelete))
		return
	}
	h.deleteByID(w, r, h.users, "user")
}

// ToggleUserStatus handles PATCH /users/{id}/toggle-status. A deactivated
// user's tokens stop authenticating immediately.
func (h *Handler) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")
	if id == principal(r).ID {
		response.Fail(w, r, response.Forbidden(msgSelfDisable))
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.users.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("user")
	}
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	doc, err = h.users.Update(ctx, id, store.Document{auth.FieldActive: !doc.Bool(auth.FieldActive)})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"user": public(h.schemas.users, doc)}))
}

// ChangeUserRole handles PATCH /users/{id}/role. The route refuses a change
// to the caller's own role before this runs.
func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	var req models.RoleRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.updateByID(w, r, h.users, h.schemas.users, "user", "user", store.Document{auth.FieldRole: req.Role})
}

// GetProfile handles GET /profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.users.Get(ctx, principal(r).ID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"user": public(h.schemas.users, doc)}))
}

// UpdateProfile handles PATCH /profile. Role, password and status are not
// part of the accepted body.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := decode(w, r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	doc, err := h.users.Update(ctx, principal(r).ID, req.Patch())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.OK(response.Data{"user": public(h.schemas.users, doc)}))
}
