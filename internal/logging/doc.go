// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

// Package logging provides centralized zerolog-based structured logging for Biographer.
//
// JSON output is the production format; console output is available for
// development. A single global logger is configured once from main.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	logging.Info().Str("biography", id).Msg("Biography published")
//	logging.Error().Err(err).Int("code", 500).Msg("Request failed")
//
//	// Request-scoped logging carries request_id and actor_id
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Mail delivery failed")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
//
// # Adapters
//
//   - NewSlogLogger bridges to log/slog for the Suture supervisor tree.
//   - NewWatermillLogger bridges to Watermill's LoggerAdapter for the event bus.
//
// # Security Logging
//
// SecurityLogger records account events (login, logout, registration,
// password change) under component=auth. User ids are shortened and email
// local parts masked before writing:
//
//	sec := logging.NewSecurityLogger()
//	sec.LogLoginFailure(email, ip, userAgent, "bad_credentials")
//
// # Thread Safety
//
// The global logger is guarded by a RWMutex; Init may be called again to
// reconfigure it.
package logging
