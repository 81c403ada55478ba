// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/validation"
)

// maxJSONBodyBytes bounds JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// Error codes used in the envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// respondJSON writes a JSON response with an ETag over the body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`"%x"`, h.Sum32())
}

// respondSuccess wraps data in a success envelope. start, when non-zero,
// fills query_time_ms.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	meta := models.Metadata{Timestamp: time.Now().UTC()}
	if !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeError maps a service error onto a status and code. Unknown errors
// are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, CodeValidation, apiErr.Message, apiErr.Details)
	case errors.Is(err, apperr.ErrValidation):
		var details map[string]interface{}
		if field := apperr.FieldOf(err); field != "" {
			details = map[string]interface{}{"field": field}
		}
		respondError(w, http.StatusBadRequest, CodeValidation, apperr.Message(err, "Invalid request"), details)
	case errors.Is(err, apperr.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, apperr.Message(err, "Not found"), nil)
	case errors.Is(err, apperr.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, apperr.Message(err, "Unauthorized"), nil)
	case errors.Is(err, apperr.ErrForbidden):
		respondError(w, http.StatusForbidden, CodeForbidden, apperr.Message(err, "Forbidden"), nil)
	case errors.Is(err, apperr.ErrConflict):
		respondError(w, http.StatusBadRequest, CodeConflict, apperr.Message(err, "Conflict"), nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", logging.SanitizeValue(r.URL.Path)).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

// decodeJSON reads a bounded JSON body into dst. Malformed or oversized
// bodies come back as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("body", "Request body too large")
		}
		return apperr.Validation("body", "Unreadable request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return apperr.Validation("body", "Request body is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.Validation("body", "Invalid JSON body")
	}
	return nil
}

// getIntParam extracts a non-negative integer query parameter with a default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

// parseCommaSeparated splits values on commas, dropping blanks.
func parseCommaSeparated(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
