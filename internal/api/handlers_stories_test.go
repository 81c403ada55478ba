// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/stories"
)

// uploadRequest builds a multipart story upload.
func uploadRequest(t *testing.T, token, filename, contentType string, content []byte, fields map[string][]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestStories_TextLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	bob := srv.signup("bob_01", "Lagos")

	story := srv.postText(alice, "first")
	if story.StoryID == "" || story.Details.ContentType != models.ContentText {
		t.Fatalf("story = %+v", story)
	}

	rec := srv.do(http.MethodGet, "/api/v1/stories/user/"+alice.ID, nil, "")
	expectStatus(t, rec, http.StatusOK)
	var doc models.StoryDocument
	decode(t, rec, &doc)
	if doc.User.UserID != alice.ID || len(doc.Stories) != 1 {
		t.Fatalf("doc = %+v", doc)
	}

	rec = srv.do(http.MethodPut, "/api/v1/stories/"+story.StoryID, map[string]interface{}{
		"caption":  "edited",
		"mentions": []string{"bob_01"},
	}, alice.Access)
	expectStatus(t, rec, http.StatusOK)
	var updated models.Story
	decode(t, rec, &updated)
	if updated.Details.Caption != "edited" || len(updated.Details.Mentions) != 1 {
		t.Errorf("updated = %+v", updated.Details)
	}

	// The cached document was dropped by the update.
	rec = srv.do(http.MethodGet, "/api/v1/stories/user/"+alice.ID, nil, "")
	decode(t, rec, &doc)
	if doc.Stories[0].Details.Caption != "edited" {
		t.Errorf("cached caption = %q, want edited", doc.Stories[0].Details.Caption)
	}

	// Someone else's story reads as not found.
	rec = srv.do(http.MethodPut, "/api/v1/stories/"+story.StoryID, map[string]string{"caption": "mine"}, bob.Access)
	expectError(t, rec, http.StatusNotFound, CodeNotFound)
	rec = srv.do(http.MethodDelete, "/api/v1/stories/"+story.StoryID, nil, bob.Access)
	expectError(t, rec, http.StatusNotFound, CodeNotFound)

	rec = srv.do(http.MethodDelete, "/api/v1/stories/"+story.StoryID, nil, alice.Access)
	expectStatus(t, rec, http.StatusOK)

	rec = srv.do(http.MethodGet, "/api/v1/stories/user/"+bob.ID, nil, "")
	apiErr := expectError(t, rec, http.StatusNotFound, CodeNotFound)
	if apiErr.Message != "User has no stories" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestStories_Validation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")

	rec := srv.do(http.MethodPost, "/api/v1/stories/text", map[string]string{
		"caption": strings.Repeat("x", 301),
	}, alice.Access)
	expectError(t, rec, http.StatusBadRequest, CodeValidation)

	rec = srv.do(http.MethodPost, "/api/v1/stories/text", map[string]string{"caption": "hi"}, "")
	expectError(t, rec, http.StatusUnauthorized, CodeUnauthorized)

	story := srv.postText(alice, "ok")
	rec = srv.do(http.MethodPut, "/api/v1/stories/"+story.StoryID, map[string]string{}, alice.Access)
	expectError(t, rec, http.StatusBadRequest, CodeValidation)
}

func TestStories_List(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	for _, name := range []string{"alice_01", "bob_01", "carol_01"} {
		srv.postText(srv.signup(name, "Lagos"), "hello from "+name)
	}

	rec := srv.do(http.MethodGet, "/api/v1/stories?limit=2", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var list StoryList
	decode(t, rec, &list)
	if len(list.Stories) != 2 || list.Page.Limit != 2 || list.Page.Count != 2 {
		t.Errorf("list = %+v", list.Page)
	}

	rec = srv.do(http.MethodGet, "/api/v1/stories?skip=2", nil, "")
	decode(t, rec, &list)
	if len(list.Stories) != 1 {
		t.Errorf("skip=2 returned %d documents, want 1", len(list.Stories))
	}
}

func TestStories_MediaUpload(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	png := []byte("\x89PNG\r\n\x1a\nfake image bytes")

	rec := srv.send(uploadRequest(t, alice.Access, "me.png", "image/png", png, map[string][]string{
		"caption":  {"sunset"},
		"mentions": {"bob_01, carol_01", "dave_01"},
	}))
	expectStatus(t, rec, http.StatusCreated)
	var story models.Story
	decode(t, rec, &story)

	if story.Details.ContentType != models.ContentImage || story.Details.Caption != "sunset" {
		t.Errorf("details = %+v", story.Details)
	}
	if len(story.Details.Mentions) != 3 {
		t.Errorf("mentions = %v, want 3", story.Details.Mentions)
	}
	prefix := "http://localhost:8080" + stories.MediaPath
	if !strings.HasPrefix(story.Details.ContentURL, prefix) || !strings.HasSuffix(story.Details.ContentURL, ".png") {
		t.Fatalf("content url = %q", story.Details.ContentURL)
	}

	// The file is served back from the media directory.
	name := strings.TrimPrefix(story.Details.ContentURL, prefix)
	rec = srv.do(http.MethodGet, stories.MediaPath+name, nil, "")
	expectStatus(t, rec, http.StatusOK)
	if !bytes.Equal(rec.Body.Bytes(), png) {
		t.Errorf("served %d bytes, want %d", rec.Body.Len(), len(png))
	}

	rec = srv.do(http.MethodGet, stories.MediaPath, nil, "")
	expectError(t, rec, http.StatusNotFound, CodeNotFound)
}

func TestStories_MediaRejects(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int
		status      int
		code        string
		message     string
	}{
		{"pdf", "doc.pdf", "application/pdf", 10, http.StatusBadRequest, CodeValidation, "Unsupported media type."},
		{"audio not recorded", "song.wav", "audio/wav", 10, http.StatusBadRequest, CodeValidation, "Only recorded audio allowed."},
		{"missing file", "", "", 0, http.StatusBadRequest, CodeValidation, "file is required"},
		{"too large", "big.mp4", "video/mp4", 3 << 19, http.StatusBadRequest, CodeValidation, "File too large."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := uploadRequest(t, alice.Access, tt.filename, tt.contentType, bytes.Repeat([]byte("a"), tt.size), nil)
			apiErr := expectError(t, srv.send(req), tt.status, tt.code)
			if apiErr.Message != tt.message {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.message)
			}
		})
	}

	t.Run("recorded audio", func(t *testing.T) {
		req := uploadRequest(t, alice.Access, "note.m4a", "audio/mp4", []byte("voice"), nil)
		rec := srv.send(req)
		expectStatus(t, rec, http.StatusCreated)
		var story models.Story
		decode(t, rec, &story)
		if story.Details.ContentType != models.ContentAudio {
			t.Errorf("content type = %q, want audio", story.Details.ContentType)
		}
	})
}
