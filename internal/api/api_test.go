// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/config"
	"github.com/tomtom215/thebox/internal/interaction"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/recommend"
	"github.com/tomtom215/thebox/internal/store"
	"github.com/tomtom215/thebox/internal/stories"
	"github.com/tomtom215/thebox/internal/users"
)

type testServer struct {
	t        *testing.T
	handler  http.Handler
	repos    *store.Repositories
	mediaDir string
}

// envelope is models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestServer(t *testing.T, mw *ChiMiddlewareConfig) *testServer {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repos := store.NewRepositories(db)

	mem := cache.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })
	resilient := cache.NewResilientStore(mem, cache.DefaultBreakerConfig("api-test"))

	logger := logging.NewTestLogger(io.Discard)

	tokens, err := auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret:       "this_is_a_very_long_secret_key_with_32_plus_characters",
		JWTIssuer:       "thebox-test",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	mediaDir := t.TempDir()
	media, err := stories.NewLocalMedia(&config.MediaConfig{
		Dir:            mediaDir,
		BaseURL:        "http://localhost:8080",
		MaxUploadBytes: 1 << 20,
	}, logger)
	if err != nil {
		t.Fatal(err)
	}

	recorder := interaction.NewRecorder(interaction.Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Viewers: repos.ViewerLogs,
		Cache:   resilient,
	}, logger)

	userSvc, err := users.NewService(users.Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Viewers: repos.ViewerLogs,
		Media:   media,
		Cache:   resilient,
		Tokens:  tokens,
		Hasher:  auth.NewHasher(bcrypt.MinCost),
	}, logger)
	if err != nil {
		t.Fatal(err)
	}

	storySvc, err := stories.NewService(stories.Dependencies{
		Stories: repos.Stories,
		Users:   repos.Users,
		Media:   media,
		Views:   recorder,
		Cache:   resilient,
	}, logger)
	if err != nil {
		t.Fatal(err)
	}

	rcfg := recommend.DefaultConfig()
	rcfg.Seed = 7
	builder, err := recommend.NewBuilder(rcfg, recommend.Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Cache:   resilient,
	}, logger)
	if err != nil {
		t.Fatal(err)
	}

	h, err := NewHandler(Dependencies{
		Users:          userSvc,
		Stories:        storySvc,
		Interaction:    recorder,
		Recommend:      builder,
		Store:          db,
		Cache:          resilient,
		EventsBackend:  "gochannel",
		MaxUploadBytes: 1 << 20,
		Version:        "test",
	})
	if err != nil {
		t.Fatal(err)
	}

	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	router := NewRouter(h, auth.NewMiddleware(tokens), RouterOptions{
		Middleware: mw,
		MediaDir:   mediaDir,
	})

	return &testServer{t: t, handler: router.Setup(), repos: repos, mediaDir: mediaDir}
}

// do sends a JSON request. body may be nil, a string or any value to marshal.
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// decode parses the envelope and, when dst is non-nil, its data.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *models.APIError {
	t.Helper()
	expectStatus(t, rec, status)
	env := decode(t, rec, nil)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("envelope = %+v, want error", env)
	}
	if env.Error.Code != code {
		t.Fatalf("error code = %q, want %q (%s)", env.Error.Code, code, env.Error.Message)
	}
	return env.Error
}

type account struct {
	ID      string
	Access  string
	Refresh string
}

// signup registers and logs in a user interested in gaming.
func (s *testServer) signup(username, location string) account {
	s.t.Helper()

	email := username + "@example.com"
	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username":  username,
		"email":     email,
		"password":  "secret123",
		"bio":       "gaming and esports every night",
		"interests": []string{"gaming"},
		"location":  location,
	}, "")
	expectStatus(s.t, rec, http.StatusCreated)
	var profile models.UserProfile
	decode(s.t, rec, &profile)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "secret123",
	}, "")
	expectStatus(s.t, rec, http.StatusOK)
	var session users.Session
	decode(s.t, rec, &session)

	return account{ID: profile.UserID, Access: session.AccessToken, Refresh: session.RefreshToken}
}

func (s *testServer) postText(a account, caption string) models.Story {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/stories/text", map[string]interface{}{
		"caption": caption,
	}, a.Access)
	expectStatus(s.t, rec, http.StatusCreated)
	var story models.Story
	decode(s.t, rec, &story)
	return story
}
