// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package logging provides centralized zerolog-based structured logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Error().Err(err).Msg("training failed")
//
//	// Request-scoped fields (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Str("user_id", id).Msg("recommendations served")
//
// Components receive a zerolog.Logger at construction and tag it with a
// "component" field. The global logger is for process-level messages and
// for code that has no logger injected.
//
// # Configuration
//
// Level, format, caller and timestamp are set from the logging section of
// the service configuration (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
//
// # Adapters
//
//   - SlogHandler bridges slog-only libraries (sutureslog) to zerolog.
//   - SecurityLogger writes sanitized audit records for admin token checks.
//   - EventLogger covers the ingest path: received, processed, rejected,
//     failed and published events.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
