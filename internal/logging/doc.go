// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package logging provides centralized zerolog-based structured logging for TheBox.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Error().Err(err).Msg("store open failed")
//
//	// Request-scoped logging picks up request_id, correlation_id and actor_id.
//	logging.Ctx(ctx).Info().Str("story_id", id).Msg("story created")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Components
//
// Long-lived components receive a zerolog.Logger by value and add their own
// component field:
//
//	logger := logging.WithComponent("recommend")
//
// # slog bridge
//
// suture and Watermill accept *slog.Logger. NewSlogLogger wraps the global
// zerolog logger so their output keeps the same format and level.
//
// # Security
//
// SecurityLogger records account lifecycle events with masked email
// addresses. SanitizeValue strips control characters from user-supplied
// strings before they reach a log line.
package logging
