// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package stories

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/models"
)

// Audio uploads must carry one of these extensions.
var recordedAudioExts = []string{".webm", ".mp3", ".m4a"}

// TextInput is the body of a text story.
type TextInput struct {
	Caption  string   `json:"caption" validate:"max=300"`
	Mentions []string `json:"mentions" validate:"omitempty,max=50,dive,required,max=50"`
}

// MediaInput is an uploaded media story. Body is read once by CreateMedia.
type MediaInput struct {
	Filename string    `json:"filename" validate:"required"`
	MIMEType string    `json:"content_type" validate:"required"`
	Caption  string    `json:"caption" validate:"max=300"`
	Mentions []string  `json:"mentions" validate:"omitempty,max=50,dive,required,max=50"`
	Body     io.Reader `json:"file" validate:"required"`
}

// UpdateInput edits the caption and/or mentions of a story.
type UpdateInput struct {
	Caption  *string   `json:"caption" validate:"omitempty,max=300"`
	Mentions *[]string `json:"mentions" validate:"omitempty,max=50,dive,required,max=50"`
}

func (in *UpdateInput) empty() bool {
	return in.Caption == nil && in.Mentions == nil
}

// classify maps an upload's MIME type to a content type and returns the
// lowercased file extension to store it under.
func classify(mime, filename string) (models.ContentType, string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	mime = strings.ToLower(strings.TrimSpace(mime))

	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.ContentImage, ext, nil
	case strings.HasPrefix(mime, "video/"):
		return models.ContentVideo, ext, nil
	case strings.HasPrefix(mime, "audio/"):
		if !slices.Contains(recordedAudioExts, ext) {
			return "", "", apperr.Validation("file", "Only recorded audio allowed.")
		}
		return models.ContentAudio, ext, nil
	}
	return "", "", apperr.Validation("file", "Unsupported media type.")
}

func cleanMentions(mentions []string) []string {
	out := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if m = strings.TrimSpace(m); m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}
