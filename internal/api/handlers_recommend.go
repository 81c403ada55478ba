// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/validation"
)

// DiscoverRequest is the anonymous exploration body.
type DiscoverRequest struct {
	Interests []string `json:"interests" validate:"omitempty,max=50,dive,max=50"`
	Location  string   `json:"location" validate:"omitempty,max=100"`
}

// SuggestionList wraps signature-based suggestions.
type SuggestionList struct {
	Suggested []models.Candidate `json:"suggested"`
}

// Recommendations returns the caller's story feed.
//
// GET /api/v1/recommendations
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	feed, err := h.recommender.Recommend(r.Context(), auth.ActorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, feed, start)
}

// SignatureSuggestions returns users matching the caller's signature.
//
// GET /api/v1/recommendations/signature
func (h *Handler) SignatureSuggestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	suggested, err := h.recommender.SuggestForUser(r.Context(), auth.ActorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if suggested == nil {
		suggested = []models.Candidate{}
	}
	respondSuccess(w, http.StatusOK, SuggestionList{Suggested: suggested}, start)
}

// Discover suggests users for an anonymous visitor.
//
// POST /api/v1/discover
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in DiscoverRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		writeError(w, r, verr)
		return
	}
	discovery, err := h.recommender.Explore(r.Context(), in.Interests, in.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, discovery, start)
}
