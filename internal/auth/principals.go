// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package auth

import (
	"context"
	"errors"

	"github.com/tomtom215/biographer/internal/store"
)

// User document fields read by the principal loader.
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldEmail             = "email"
	FieldRole              = "role"
	FieldActive            = "active"
	FieldPassword          = "password"
	FieldPasswordChangedAt = "passwordChangedAt"
)

// StorePrincipals loads principals from the users collection.
type StorePrincipals struct {
	users store.Collection
}

// NewStorePrincipals creates a loader over users.
func NewStorePrincipals(users store.Collection) *StorePrincipals {
	return &StorePrincipals{users: users}
}

// LoadPrincipal implements PrincipalLoader.
func (s *StorePrincipals) LoadPrincipal(ctx context.Context, id string) (*Principal, error) {
	doc, err := s.users.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	return PrincipalFromDocument(doc), nil
}

// PrincipalFromDocument maps a user document to a Principal. A missing
// active flag counts as active; a missing role counts as user.
func PrincipalFromDocument(doc store.Document) *Principal {
	p := &Principal{
		ID:        doc.ID(),
		FirstName: doc.String(FieldFirstName),
		LastName:  doc.String(FieldLastName),
		Email:     doc.String(FieldEmail),
		Role:      Role(doc.String(FieldRole)),
		Active:    true,
	}
	if active, ok := doc[FieldActive].(bool); ok {
		p.Active = active
	}
	if !p.Role.Valid() {
		p.Role = RoleUser
	}
	if t, ok := doc.Time(FieldPasswordChangedAt); ok {
		p.PasswordChangedAt = t
	}
	return p
}
