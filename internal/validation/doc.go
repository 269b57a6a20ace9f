// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by every handler; it caches struct
// metadata after the first use. Error field names come from json tags, so a
// failing `json:"firstName"` field reports as firstName.
//
// Custom tags:
//   - notblank: string is not empty after trimming whitespace
//   - slug: lowercase letters, digits and single hyphens
//
// Usage:
//
//	type createCategoryRequest struct {
//	    Name string `json:"name" validate:"required,notblank,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    response.Fail(w, r, verr)
//	    return
//	}
package validation
