// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/biographer/internal/auth"
	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/metrics"
	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
	"github.com/tomtom215/biographer/internal/validation"
)

// Kind is the machine-readable error class carried in failure envelopes.
type Kind string

// Error kinds and the status each one maps to.
const (
	KindInvalidQuery    Kind = "invalid_query"   // 400
	KindValidation      Kind = "validation"      // 400
	KindUnauthenticated Kind = "unauthenticated" // 401
	KindForbidden       Kind = "forbidden"       // 403
	KindNotFound        Kind = "not_found"       // 404
	KindConflict        Kind = "conflict"        // 409
	KindRateLimited     Kind = "rate_limited"    // 429
	KindFault           Kind = "fault"           // 500
)

// genericFault is the only message a client ever sees for a 500.
const genericFault = "Something went wrong!"

// Error is an HTTP-facing error: a status, a kind and a client-safe message.
// Err holds the underlying cause for logging and is never serialized.
type Error struct {
	Status  int
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Envelope renders the error as a failure envelope.
func (e *Error) Envelope() *Envelope {
	status := StatusFail
	if e.Status >= http.StatusInternalServerError {
		status = StatusError
	}
	return &Envelope{Status: status, Kind: e.Kind, Message: e.Message, Errors: e.Details}
}

// InvalidQuery is a 400 for a rejected query string.
func InvalidQuery(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: KindInvalidQuery, Message: msg}
}

// Validation is a 400 for a rejected request body.
func Validation(msg string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: KindValidation, Message: msg, Details: details}
}

// Unauthenticated is a 401.
func Unauthenticated(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Kind: KindUnauthenticated, Message: msg}
}

// Forbidden is a 403.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

// NotFound is a 404.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

// Conflict is a 409.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Kind: KindConflict, Message: msg}
}

// RateLimited is a 429.
func RateLimited(msg string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Kind: KindRateLimited, Message: msg}
}

// Fault is a 500 wrapping err. The cause is logged, never returned.
func Fault(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: KindFault, Message: genericFault, Err: err}
}

// From classifies any error returned by a handler or its collaborators.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var qe *query.Error
	if errors.As(err, &qe) {
		return InvalidQuery(qe.Error())
	}

	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		return Validation(ve.Error(), ve.Fields())
	}

	switch {
	case auth.IsAuthFailure(err):
		e := Unauthenticated(auth.Message(err))
		e.Err = err
		return e
	case errors.Is(err, store.ErrNotFound):
		return NotFound("No document found with that ID")
	case errors.Is(err, store.ErrDuplicate):
		return Conflict("Duplicate field value. Please use another value!")
	}

	return Fault(err)
}

// Fail writes the failure envelope for err. Faults are logged with the full
// cause; everything else is logged at debug.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	e := From(err)

	logger := logging.Ctx(r.Context())
	if e.Kind == KindFault {
		logger.Error().
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(fmt.Sprint(e.Err))).
			Msg("Request failed")
	} else {
		logger.Debug().
			Str("kind", string(e.Kind)).
			Int("status", e.Status).
			Str("message", sanitizeLogValue(e.Message)).
			Msg("Request rejected")
	}

	metrics.RecordAPIError(string(e.Kind))
	JSON(w, e.Status, e.Envelope())
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
