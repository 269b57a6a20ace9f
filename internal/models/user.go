// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"

	"github.com/tomtom215/biographer/internal/store"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,notblank,max=50"`
	LastName        string `json:"lastName" validate:"required,notblank,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest is the body of POST /auth/login and /auth/admin/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest is the body of PATCH /auth/update-password.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UserDocument builds a stored user from its identity fields and an
// already hashed password.
func UserDocument(firstName, lastName, email, passwordHash, role string, active bool) store.Document {
	return store.Document{
		"firstName": strings.TrimSpace(firstName),
		"lastName":  strings.TrimSpace(lastName),
		"email":     NormalizeEmail(email),
		"password":  passwordHash,
		"role":      role,
		"active":    active,
		"avatar":    "",
		"banner":    "",
	}
}

// CreateUserRequest is the body of the admin POST /users.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=50"`
	LastName  string `json:"lastName" validate:"required,notblank,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
	Active    *bool  `json:"active"`
}

// UpdateUserRequest is the body of the admin PATCH /users/{id}. Role and
// password have their own endpoints.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Active    *bool   `json:"active"`
}

// Patch returns the fields present in the request.
func (r *UpdateUserRequest) Patch() store.Document {
	doc := store.Document{}
	setIf(doc, "firstName", r.FirstName)
	setIf(doc, "lastName", r.LastName)
	if r.Email != nil {
		doc["email"] = NormalizeEmail(*r.Email)
	}
	setIf(doc, "active", r.Active)
	return doc
}

// RoleRequest is the body of PATCH /users/{id}/role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ProfileRequest is the body of PATCH /profile. It has no role, password
// or active field, so a principal cannot change them through it.
type ProfileRequest struct {
	FirstName   *string            `json:"firstName" validate:"omitempty,notblank,max=50"`
	LastName    *string            `json:"lastName" validate:"omitempty,notblank,max=50"`
	Email       *string            `json:"email" validate:"omitempty,email"`
	Avatar      *string            `json:"avatar" validate:"omitempty,url"`
	Banner      *string            `json:"banner" validate:"omitempty,url"`
	Phone       *string            `json:"phone" validate:"omitempty,max=30"`
	Location    *string            `json:"location" validate:"omitempty,max=100"`
	Bio         *string            `json:"bio" validate:"omitempty,max=500"`
	SocialLinks *map[string]string `json:"socialLinks" validate:"omitempty,max=10,dive,omitempty,url"`
}

// Patch returns the fields present in the request.
func (r *ProfileRequest) Patch() store.Document {
	doc := store.Document{}
	setIf(doc, "firstName", r.FirstName)
	setIf(doc, "lastName", r.LastName)
	if r.Email != nil {
		doc["email"] = NormalizeEmail(*r.Email)
	}
	setIf(doc, "avatar", r.Avatar)
	setIf(doc, "banner", r.Banner)
	setIf(doc, "phone", r.Phone)
	setIf(doc, "location", r.Location)
	setIf(doc, "bio", r.Bio)
	if r.SocialLinks != nil {
		links := make(map[string]any, len(*r.SocialLinks))
		for k, v := range *r.SocialLinks {
			links[k] = v
		}
		doc["socialLinks"] = links
	}
	return doc
}
