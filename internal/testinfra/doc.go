// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package testinfra starts real backing services in Docker for integration
// tests. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/store/postgres/...
//
// Tests call SkipIfNoDocker first so they pass quietly on machines without
// a Docker daemon.
package testinfra
