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
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/store"
)

type mockViews struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (m *mockViews) MarkTargetViewed(_ context.Context, viewer, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [2]string{viewer, target})
	return m.err
}

type fixture struct {
	repos *store.Repositories
	cache *cache.MemoryStore
	media *LocalMedia
	views *mockViews
	svc   *Service
}

var fixedNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mem := cache.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	f := &fixture{
		repos: store.NewRepositories(db),
		cache: mem,
		media: newMedia(t, 1<<20),
		views: &mockViews{},
	}
	f.svc, err = NewService(Dependencies{
		Stories: f.repos.Stories,
		Users:   f.repos.Users,
		Media:   f.media,
		Views:   f.views,
		Cache:   mem,
	}, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	f.svc.now = func() time.Time { return fixedNow }

	for _, id := range []string{"alice", "bob"} {
		u := &models.User{
			UserID:           id,
			Username:         id,
			Email:            id + "@example.com",
			ProfileImageURL:  "http://img.test/" + id + ".png",
			ProfileSignature: models.NewProfileSignature(),
		}
		if err := f.repos.Users.Insert(context.Background(), u); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}
	return f
}

func (f *fixture) mediaFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.media.Dir())
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestCreateText(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	story, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: "hello", Mentions: []string{" bob ", "bob", ""}})
	if err != nil {
		t.Fatalf("CreateText() error = %v", err)
	}
	if story.StoryID == "" || story.Details.ContentType != models.ContentText {
		t.Errorf("story = %+v", story)
	}
	if !story.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", story.CreatedAt, fixedNow)
	}
	if len(story.Details.Mentions) != 1 || story.Details.Mentions[0] != "bob" {
		t.Errorf("Mentions = %v, want [bob]", story.Details.Mentions)
	}

	doc, err := f.repos.Stories.GetDocument(ctx, "alice")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if doc.User.Username != "alice" || doc.User.ProfilePic != "http://img.test/alice.png" {
		t.Errorf("owner preview = %+v", doc.User)
	}
	if len(doc.Stories) != 1 || doc.Stories[0].StoryID != story.StoryID {
		t.Errorf("stories = %+v", doc.Stories)
	}
}

func TestCreateText_Rejects(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: strings.Repeat("x", models.MaxCaptionLength+1)})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("long caption error = %v, want validation", err)
	}

	// Exactly at the limit, counted in characters rather than bytes.
	if _, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: strings.Repeat("é", models.MaxCaptionLength)}); err != nil {
		t.Errorf("caption at limit error = %v", err)
	}

	_, err = f.svc.CreateText(ctx, "ghost", &TextInput{Caption: "hi"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown owner error = %v, want not found", err)
	}
}

func TestCreateMedia(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mime     string
		filename string
		want     models.ContentType
		wantMsg  string
	}{
		{"image", "image/png", "cat.PNG", models.ContentImage, ""},
		{"video", "video/mp4", "clip.mp4", models.ContentVideo, ""},
		{"recorded audio", "audio/webm", "memo.webm", models.ContentAudio, ""},
		{"m4a audio", "audio/mp4", "memo.m4a", models.ContentAudio, ""},
		{"other audio", "audio/wav", "song.wav", "", "Only recorded audio allowed."},
		{"document", "application/pdf", "doc.pdf", "", "Unsupported media type."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			story, err := f.svc.CreateMedia(context.Background(), "alice", &MediaInput{
				Filename: tt.filename,
				MIMEType: tt.mime,
				Caption:  "look",
				Body:     strings.NewReader("bytes"),
			})

			if tt.wantMsg != "" {
				if !errors.Is(err, apperr.ErrValidation) || apperr.Message(err, "") != tt.wantMsg {
					t.Fatalf("error = %v, want validation %q", err, tt.wantMsg)
				}
				if n := f.mediaFiles(t); n != 0 {
					t.Errorf("rejected upload wrote %d files", n)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateMedia() error = %v", err)
			}
			if story.Details.ContentType != tt.want {
				t.Errorf("ContentType = %q, want %q", story.Details.ContentType, tt.want)
			}
			if !strings.HasPrefix(story.Details.ContentURL, "http://localhost:8000/media/") {
				t.Errorf("ContentURL = %q", story.Details.ContentURL)
			}
			if ext := filepath.Ext(story.Details.ContentURL); ext != strings.ToLower(filepath.Ext(tt.filename)) {
				t.Errorf("ext = %q", ext)
			}
			if n := f.mediaFiles(t); n != 1 {
				t.Errorf("media files = %d, want 1", n)
			}
		})
	}
}

func TestCreateMedia_UnknownOwnerWritesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateMedia(context.Background(), "ghost", &MediaInput{
		Filename: "a.jpg",
		MIMEType: "image/jpeg",
		Body:     strings.NewReader("x"),
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	if n := f.mediaFiles(t); n != 0 {
		t.Errorf("media files = %d, want 0", n)
	}
}

func TestGetByUser_CachesAndInvalidates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetByUser(ctx, "alice"); apperr.Message(err, "") != "User has no stories" {
		t.Fatalf("GetByUser() without stories error = %v", err)
	}

	first, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: "one"})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := f.svc.GetByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if len(doc.Stories) != 1 {
		t.Fatalf("stories = %d, want 1", len(doc.Stories))
	}

	var cached models.StoryDocument
	found, err := f.cache.Get(ctx, cache.StoriesKey("alice"), &cached)
	if err != nil || !found {
		t.Fatalf("cache lookup found=%v err=%v, want cached document", found, err)
	}

	if _, err := f.svc.Update(ctx, "alice", first.StoryID, &UpdateInput{Caption: ptr("edited")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	found, _ = f.cache.Get(ctx, cache.StoriesKey("alice"), &cached)
	if found {
		t.Error("Update() left a stale cache entry")
	}

	doc, err = f.svc.GetByUser(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Stories[0].Details.Caption != "edited" {
		t.Errorf("caption = %q, want edited", doc.Stories[0].Details.Caption)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	story, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: "orig", Mentions: []string{"bob"}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.Update(ctx, "alice", story.StoryID, &UpdateInput{Mentions: &[]string{}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Details.Caption != "orig" || len(got.Details.Mentions) != 0 {
		t.Errorf("details = %+v, want caption kept and mentions cleared", got.Details)
	}

	if _, err := f.svc.Update(ctx, "bob", story.StoryID, &UpdateInput{Caption: ptr("hijack")}); apperr.Message(err, "") != "Story not found or unauthorized" {
		t.Errorf("foreign Update() error = %v", err)
	}
	if _, err := f.svc.Update(ctx, "alice", "missing", &UpdateInput{Caption: ptr("x")}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing story error = %v", err)
	}
	if _, err := f.svc.Update(ctx, "alice", story.StoryID, &UpdateInput{}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty update error = %v", err)
	}
	long := strings.Repeat("x", models.MaxCaptionLength+1)
	if _, err := f.svc.Update(ctx, "alice", story.StoryID, &UpdateInput{Caption: &long}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("long caption error = %v", err)
	}
}

func TestDelete_RemovesMedia(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	story, err := f.svc.CreateMedia(ctx, "alice", &MediaInput{
		Filename: "pic.jpg",
		MIMEType: "image/jpeg",
		Body:     strings.NewReader("img"),
	})
	if err != nil {
		t.Fatal(err)
	}
	keep, err := f.svc.CreateText(ctx, "alice", &TextInput{Caption: "stay"})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, "bob", story.StoryID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("foreign Delete() error = %v", err)
	}
	if err := f.svc.Delete(ctx, "alice", story.StoryID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := f.mediaFiles(t); n != 0 {
		t.Errorf("media files after delete = %d", n)
	}
	if err := f.svc.Delete(ctx, "alice", story.StoryID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("repeat Delete() error = %v", err)
	}

	doc, err := f.repos.Stories.GetDocument(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Stories) != 1 || doc.Stories[0].StoryID != keep.StoryID {
		t.Errorf("remaining stories = %+v", doc.Stories)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	for _, owner := range []string{"alice", "bob"} {
		if _, err := f.svc.CreateText(ctx, owner, &TextInput{Caption: owner}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := f.svc.List(ctx, -3, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() = %d documents, want 2", len(all))
	}
	page, err := f.svc.List(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].User.UserID != all[1].User.UserID {
		t.Errorf("List(1, 1) = %+v", page)
	}
}

func TestMarkViewed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.svc.MarkViewed(context.Background(), "bob", "alice"); err != nil {
		t.Fatalf("MarkViewed() error = %v", err)
	}
	if len(f.views.calls) != 1 || f.views.calls[0] != [2]string{"bob", "alice"} {
		t.Errorf("calls = %v", f.views.calls)
	}

	f.views.err = apperr.NotFound("User has no stories")
	if err := f.svc.MarkViewed(context.Background(), "bob", "alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkViewed() error = %v, want propagated not found", err)
	}
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewService(Dependencies{}, logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("NewService() without repositories = nil error")
	}
}

func ptr[T any](v T) *T { return &v }
