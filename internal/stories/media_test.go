// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package stories

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/thebox/internal/config"
	"github.com/tomtom215/thebox/internal/logging"
)

func newMedia(t *testing.T, maxBytes int64) *LocalMedia {
	t.Helper()
	m, err := NewLocalMedia(&config.MediaConfig{
		Dir:            filepath.Join(t.TempDir(), "media"),
		BaseURL:        "http://localhost:8000/",
		MaxUploadBytes: maxBytes,
	}, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewLocalMedia() error = %v", err)
	}
	return m
}

func TestLocalMedia_SaveAndRemove(t *testing.T) {
	t.Parallel()

	m := newMedia(t, 0)
	ctx := context.Background()

	url, err := m.Save(ctx, ".JPG", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8000/media/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q", url)
	}

	path := filepath.Join(m.Dir(), filepath.Base(url))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("content = %q", data)
	}

	if err := m.Remove(ctx, url); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still present after Remove: %v", err)
	}
	if err := m.Remove(ctx, url); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
}

func TestLocalMedia_TooLarge(t *testing.T) {
	t.Parallel()

	m := newMedia(t, 4)
	_, err := m.Save(context.Background(), ".mp3", strings.NewReader("too many bytes"))
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("Save() error = %v, want ErrUploadTooLarge", err)
	}
	entries, err := os.ReadDir(m.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial upload left %d files behind", len(entries))
	}
}

func TestLocalMedia_RemoveIgnoresForeignURLs(t *testing.T) {
	t.Parallel()

	m := newMedia(t, 0)
	sentinel := filepath.Join(filepath.Dir(m.Dir()), "keep.txt")
	if err := os.WriteFile(sentinel, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, url := range []string{
		"",
		"http://elsewhere.test/file.jpg",
		"http://localhost:8000/media/../keep.txt",
		"http://localhost:8000/media/",
	} {
		if err := m.Remove(context.Background(), url); err != nil {
			t.Errorf("Remove(%q) error = %v", url, err)
		}
	}
	if _, err := os.Stat(sentinel); err != nil {
		t.Errorf("file outside media dir was touched: %v", err)
	}
}

func TestSanitizeExt(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		".webm":                   ".webm",
		"MP3":                     ".mp3",
		"":                        "",
		".":                       "",
		"./../x":                  ".x",
		".averyverylongextension": ".averyveryl",
	}
	for in, want := range tests {
		if got := sanitizeExt(in); got != want {
			t.Errorf("sanitizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}
