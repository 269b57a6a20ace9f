// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package query

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is the sentinel matched by every parameter error.
var ErrInvalidQuery = errors.New("invalid query")

// Error describes a rejected request parameter. Its message is safe to
// return to clients.
type Error struct {
	Param  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidQuery) match.
func (e *Error) Unwrap() error {
	return ErrInvalidQuery
}

func invalid(param, format string, args ...any) error {
	return &Error{Param: param, Reason: fmt.Sprintf(format, args...)}
}
