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
	"github.com/tomtom215/thebox/internal/interaction"
	"github.com/tomtom215/thebox/internal/models"
)

// Interact returns the handler recording action for the caller.
//
//	POST /api/v1/interactions/{view,react,share,repost}/{story_id}
//	POST /api/v1/interactions/skip/{target_id}?story_id=
func (h *Handler) Interact(action models.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		req := interaction.Request{
			ActorID: auth.ActorID(r.Context()),
			Action:  action,
		}
		if action.StoryScoped() {
			req.StoryID = chi.URLParam(r, "story_id")
		} else {
			req.TargetID = chi.URLParam(r, "target_id")
			req.StoryID = r.URL.Query().Get("story_id")
		}

		event, err := h.recorder.Record(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondSuccess(w, http.StatusOK, event, start)
	}
}
