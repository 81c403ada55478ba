// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package stories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/config"
)

// MediaPath is the URL path prefix uploaded files are served under.
const MediaPath = "/media/"

// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// LocalMedia stores uploads as files in a single directory.
type LocalMedia struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   zerolog.Logger
}

// NewLocalMedia creates the media directory if needed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLocalMedia(cfg *config.MediaConfig, logger zerolog.Logger) (*LocalMedia, error) {
	if cfg.Dir == "" {
		return nil, errors.New("media: directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("media: create %s: %w", cfg.Dir, err)
	}
	return &LocalMedia{
		dir:      cfg.Dir,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger.With().Str("component", "media").Logger(),
	}, nil
}

// Dir returns the directory files are written to.
func (m *LocalMedia) Dir() string { return m.dir }

// Save writes r to a new file named {uuid}{ext} and returns its public URL.
// A partial file is removed on failure.
func (m *LocalMedia) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + sanitizeExt(ext)
	path := filepath.Join(m.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	src := r
	if m.maxBytes > 0 {
		src = io.LimitReader(r, m.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && m.maxBytes > 0 && n > m.maxBytes {
		err = ErrUploadTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write media file: %w", err)
	}

	m.logger.Debug().Str("file", name).Int64("bytes", n).Msg("media saved")
	return m.baseURL + MediaPath + name, nil
}

// Remove deletes the file behind contentURL. URLs that do not point into
// this store and files that are already gone are ignored.
func (m *LocalMedia) Remove(_ context.Context, contentURL string) error {
	_, name, ok := strings.Cut(contentURL, MediaPath)
	if !ok || name == "" || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

// sanitizeExt keeps a leading dot and up to ten ASCII letters or digits.
func sanitizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	var b strings.Builder
	for _, r := range ext {
		if b.Len() == 10 {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}
