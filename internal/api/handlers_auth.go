// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/users"
)

// RefreshRequest is the token refresh body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account.
//
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in users.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.users.Register(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, profile, start)
}

// Login exchanges credentials for a token pair.
//
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in users.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := h.users.Login(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, session, start)
}

// Refresh rotates the token pair.
//
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in RefreshRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.RefreshToken == "" {
		writeError(w, r, apperr.Validation("refresh_token", "refresh_token is required"))
		return
	}
	session, err := h.users.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, session, start)
}

// Logout revokes the caller's refresh token.
//
// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), auth.ActorID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"}, time.Time{})
}
