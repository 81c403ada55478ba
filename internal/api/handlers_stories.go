// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/stories"
	"github.com/tomtom215/thebox/internal/users"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// StoryList is a page of story documents.
type StoryList struct {
	Stories []models.StoryDocument `json:"stories"`
	Page    models.Page            `json:"page"`
}

// ListStories pages through story documents.
//
// GET /api/v1/stories?skip=0&limit=10
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	skip, limit := users.ClampPage(getIntParam(r, "skip", 0), getIntParam(r, "limit", stories.DefaultListLimit))
	docs, err := h.stories.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, StoryList{
		Stories: docs,
		Page:    models.Page{Skip: skip, Limit: limit, Count: len(docs)},
	}, start)
}

// GetUserStories returns one user's story document.
//
// GET /api/v1/stories/user/{id}
func (h *Handler) GetUserStories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	doc, err := h.stories.GetByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, doc, start)
}

// CreateTextStory adds a text story for the caller.
//
// POST /api/v1/stories/text
func (h *Handler) CreateTextStory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in stories.TextInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	story, err := h.stories.CreateText(r.Context(), auth.ActorID(r.Context()), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, story, start)
}

// CreateMediaStory uploads an image, video or recorded audio story.
//
// POST /api/v1/stories/media (multipart: file, caption, mentions)
//
// mentions may repeat or be comma separated.
func (h *Handler) CreateMediaStory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperr.Validation("file", "File too large."))
			return
		}
		writeError(w, r, apperr.Validation("body", "Invalid multipart form"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Validation("file", "file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	story, err := h.stories.CreateMedia(r.Context(), auth.ActorID(r.Context()), &stories.MediaInput{
		Filename: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Caption:  r.FormValue("caption"),
		Mentions: parseCommaSeparated(r.MultipartForm.Value["mentions"]...),
		Body:     file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, story, start)
}

// UpdateStory edits the caption or mentions of one of the caller's stories.
//
// PUT /api/v1/stories/{id}
func (h *Handler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in stories.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	story, err := h.stories.Update(r.Context(), auth.ActorID(r.Context()), chi.URLParam(r, "id"), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, story, start)
}

// DeleteStory removes one of the caller's stories.
//
// DELETE /api/v1/stories/{id}
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.Delete(r.Context(), auth.ActorID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Story deleted"}, time.Time{})
}

// MarkStoriesViewed marks every story of a target as seen by the caller.
//
// POST /api/v1/stories/viewed/{target_id}
func (h *Handler) MarkStoriesViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.MarkViewed(r.Context(), auth.ActorID(r.Context()), chi.URLParam(r, "target_id")); err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Stories marked as viewed"}, time.Time{})
}
