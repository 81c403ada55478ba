// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubBreaker string

func (b stubBreaker) State() string { return string(b) }

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	rec := srv.do(http.MethodGet, "/api/v1/health", nil, "")
	expectStatus(t, rec, http.StatusOK)

	var health HealthStatus
	env := decode(t, rec, &health)
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	if health.Status != "healthy" || !health.StoreConnected {
		t.Errorf("health = %+v", health)
	}
	if health.CacheBreaker != "closed" || health.EventsBackend != "gochannel" || health.Version != "test" {
		t.Errorf("health details = %+v", health)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestHealth_Degraded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   Pinger
		breaker BreakerReporter
		status  string
	}{
		{"all good", stubPinger{}, stubBreaker("closed"), "healthy"},
		{"no cache configured", stubPinger{}, nil, "healthy"},
		{"store down", stubPinger{err: errors.New("closed")}, stubBreaker("closed"), "degraded"},
		{"no store", nil, stubBreaker("closed"), "degraded"},
		{"cache open", stubPinger{}, stubBreaker("open"), "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &Handler{store: tt.store, cache: tt.breaker, version: "test"}
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
			expectStatus(t, rec, http.StatusOK)

			var health HealthStatus
			decode(t, rec, &health)
			if health.Status != tt.status {
				t.Errorf("status = %q, want %q", health.Status, tt.status)
			}
		})
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/v1/nope", nil, "")
	expectError(t, rec, http.StatusNotFound, CodeNotFound)

	rec = srv.do(http.MethodDelete, "/api/v1/health", nil, "")
	expectError(t, rec, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")

	rec = srv.do(http.MethodGet, "/metrics", nil, "")
	expectStatus(t, rec, http.StatusOK)
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	mw.CORSAllowedOrigins = []string{"https://app.example.com"}
	srv := newTestServer(t, mw)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stories/text", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := srv.send(req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/stories/text", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = srv.send(req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want empty", got)
	}
}
