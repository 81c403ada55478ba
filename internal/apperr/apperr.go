// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package apperr defines the error kinds shared by the store, the core
// services and the HTTP layer.
//
// Each kind is a sentinel. Errors carry a kind plus a client-safe message,
// and callers classify them with errors.Is:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	// ErrNotFound means a user, target or story does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means bad credentials or a mutation of a resource the actor does not own.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the credentials are valid but were revoked or reused.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means malformed input, rejected before any store write.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a uniqueness constraint would be violated.
	ErrConflict = errors.New("conflict")
)

// Error is an error of a known kind with a message safe to show clients.
type Error struct {
	Kind    error
	Message string
	// Field optionally names the offending input field.
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound returns an ErrNotFound-kind error.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized returns an ErrUnauthorized-kind error.
func Unauthorized(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Forbidden returns an ErrForbidden-kind error.
func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns an ErrConflict-kind error.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation returns an ErrValidation-kind error for field.
func Validation(field, format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-safe message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// FieldOf returns the field recorded on a validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
