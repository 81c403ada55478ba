// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/users"
)

// UserList is a page of user previews.
type UserList struct {
	Users []models.UserPreview `json:"users"`
	Page  models.Page          `json:"page"`
}

// GetUser returns a user preview.
//
// GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	preview, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, preview, start)
}

// ListUsers pages through users.
//
// GET /api/v1/users?skip=0&limit=10
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	skip, limit := users.ClampPage(getIntParam(r, "skip", 0), getIntParam(r, "limit", users.DefaultListLimit))
	list, err := h.users.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, UserList{
		Users: list,
		Page:  models.Page{Skip: skip, Limit: limit, Count: len(list)},
	}, start)
}

// UpdateMe applies a partial update to the caller's profile.
//
// PUT /api/v1/users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in users.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.users.Update(r.Context(), auth.ActorID(r.Context()), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, profile, start)
}

// DeleteMe removes the caller's account and everything it owns.
//
// DELETE /api/v1/users/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), auth.ActorID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Account deleted"}, time.Time{})
}
