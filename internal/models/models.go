// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package models

import (
	"strings"
	"time"

	"github.com/tomtom215/biographer/internal/store"
)

// DateLayout is the calendar date format accepted for date-only fields.
const DateLayout = "2006-01-02"

// setIf copies *v into doc under key when v is non-nil.
func setIf[T any](doc store.Document, key string, v *T) {
	if v != nil {
		doc[key] = *v
	}
}

// setDate parses a date-only value into doc. An empty value clears the
// field. Callers validate the layout first.
func setDate(doc store.Document, key, v string) {
	if v == "" {
		doc[key] = nil
		return
	}
	if t, err := time.Parse(DateLayout, v); err == nil {
		doc[key] = t
	}
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
