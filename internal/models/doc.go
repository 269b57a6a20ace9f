// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package models holds the request bodies accepted by the API, with
// go-playground/validator tags, and the document fields they map onto.
//
// Create requests use value fields and "required" tags. Update requests use
// pointer fields so that an omitted key leaves the stored value alone; their
// Patch methods return only the keys the client sent.
//
// Fields a client must never set directly (the password hash, view counters,
// a principal's own role) have no request field at all.
package models
