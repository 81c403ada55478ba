// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// AuthEvent is an account or token lifecycle event worth auditing.
type AuthEvent struct {
	// Event names what happened: register, login, refresh, logout.
	Event string
	// UserID is the account id, when known.
	UserID string
	// Email is masked before it is written.
	Email string
	// IPAddress is the client address as seen by the server.
	IPAddress string
	Success   bool
	// Reason explains a failure.
	Reason string
}

// SecurityLogger writes auth events with sensitive values masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on top of the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// Log writes the event. Request ids from ctx are attached.
func (l *SecurityLogger) Log(ctx context.Context, ev AuthEvent) {
	logger := l.logger
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}

	e := logger.Info()
	if !ev.Success {
		e = logger.Warn()
	}

	e = e.Str("event", ev.Event).Bool("success", ev.Success)
	if ev.UserID != "" {
		e = e.Str("user_id", SanitizeValue(ev.UserID))
	}
	if ev.Email != "" {
		e = e.Str("email", MaskEmail(ev.Email))
	}
	if ev.IPAddress != "" {
		e = e.Str("ip", SanitizeValue(ev.IPAddress))
	}
	if ev.Reason != "" {
		e = e.Str("reason", SanitizeValue(ev.Reason))
	}
	e.Msg("auth event")
}

// MaskEmail keeps the first character of the local part and the domain.
//
//	MaskEmail("alice@example.com") == "a***@example.com"
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return SanitizeValue(email[:1] + "***" + email[at:])
}

// SanitizeValue replaces control characters so user input cannot forge log lines.
func SanitizeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
