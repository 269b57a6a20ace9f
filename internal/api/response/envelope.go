// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package response builds the JSON envelope every endpoint answers with and
// maps domain errors onto HTTP status codes.
//
// Success:
//
//	{
//	  "status": "success",
//	  "results": 10,
//	  "total": 42,
//	  "pagination": {"total": 42, "page": 1, "pages": 5, "limit": 10},
//	  "data": {"biographies": [...]}
//	}
//
// Failure (4xx uses "fail", 5xx uses "error"):
//
//	{"status": "fail", "kind": "not_found", "message": "No biography found with that slug"}
package response

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/query"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Data is the keyed payload of a success envelope, e.g. {"biography": doc}.
type Data map[string]any

// Pagination describes the page window of a list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// Envelope is the body of every JSON response.
type Envelope struct {
	Status     string      `json:"status"`
	Token      string      `json:"token,omitempty"`
	Results    *int        `json:"results,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Kind       Kind        `json:"kind,omitempty"`
	Message    string      `json:"message,omitempty"`
	Errors     any         `json:"errors,omitempty"`
	Data       Data        `json:"data,omitempty"`
}

// OK wraps a single keyed payload.
func OK(data Data) *Envelope {
	return &Envelope{Status: StatusSuccess, Data: data}
}

// WithToken wraps data together with a freshly issued access token.
func WithToken(token string, data Data) *Envelope {
	return &Envelope{Status: StatusSuccess, Token: token, Data: data}
}

// Message builds a success envelope carrying only a message.
func Message(msg string) *Envelope {
	return &Envelope{Status: StatusSuccess, Message: msg}
}

// List wraps a page of documents with result, total and pagination metadata.
// total must come from the count descriptor of the same query.
func List[T any](resource string, docs []T, total int64, d *query.Descriptor) *Envelope {
	if docs == nil {
		docs = []T{}
	}
	n := len(docs)
	return &Envelope{
		Status:  StatusSuccess,
		Results: &n,
		Total:   &total,
		Pagination: &Pagination{
			Total: total,
			Page:  d.Page(),
			Pages: query.Pages(total, d.Limit()),
			Limit: d.Limit(),
		},
		Data: Data{resource: docs},
	}
}

// Items wraps an unpaginated list with a result count.
func Items[T any](resource string, docs []T) *Envelope {
	if docs == nil {
		docs = []T{}
	}
	n := len(docs)
	return &Envelope{Status: StatusSuccess, Results: &n, Data: Data{resource: docs}}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// Success writes a 200 envelope.
func Success(w http.ResponseWriter, env *Envelope) {
	JSON(w, http.StatusOK, env)
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, env *Envelope) {
	JSON(w, http.StatusCreated, env)
}

// NoContent writes a bodiless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
