// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/thebox/internal/users"
)

func TestAuth_SessionLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	if alice.ID == "" || alice.Access == "" || alice.Refresh == "" {
		t.Fatalf("signup = %+v, want ids and tokens", alice)
	}

	rec := srv.do(http.MethodPost, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: alice.Refresh}, "")
	expectStatus(t, rec, http.StatusOK)
	var rotated users.Session
	decode(t, rec, &rotated)
	if rotated.RefreshToken == alice.Refresh {
		t.Error("refresh token was not rotated")
	}
	if rotated.User.UserID != alice.ID {
		t.Errorf("session user = %q, want %q", rotated.User.UserID, alice.ID)
	}

	// The old refresh token is no longer the stored one.
	rec = srv.do(http.MethodPost, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: alice.Refresh}, "")
	expectError(t, rec, http.StatusForbidden, CodeForbidden)

	rec = srv.do(http.MethodPost, "/api/v1/auth/logout", nil, rotated.AccessToken)
	expectStatus(t, rec, http.StatusOK)

	rec = srv.do(http.MethodPost, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: rotated.RefreshToken}, "")
	expectError(t, rec, http.StatusForbidden, CodeForbidden)
}

func TestAuth_Errors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	srv.signup("alice_01", "Lagos")

	tests := []struct {
		name   string
		path   string
		body   interface{}
		token  string
		status int
		code   string
	}{
		{
			name: "duplicate email",
			path: "/api/v1/auth/register",
			body: map[string]interface{}{
				"username": "alice_02", "email": "alice_01@example.com", "password": "secret123",
			},
			status: http.StatusBadRequest, code: CodeConflict,
		},
		{
			name: "duplicate username",
			path: "/api/v1/auth/register",
			body: map[string]interface{}{
				"username": "alice_01", "email": "other@example.com", "password": "secret123",
			},
			status: http.StatusBadRequest, code: CodeConflict,
		},
		{
			name:   "invalid register body",
			path:   "/api/v1/auth/register",
			body:   map[string]interface{}{"username": "a", "email": "nope", "password": "x"},
			status: http.StatusBadRequest, code: CodeValidation,
		},
		{
			name:   "malformed json",
			path:   "/api/v1/auth/login",
			body:   "{not json",
			status: http.StatusBadRequest, code: CodeValidation,
		},
		{
			name:   "unknown email",
			path:   "/api/v1/auth/login",
			body:   map[string]string{"email": "ghost@example.com", "password": "secret123"},
			status: http.StatusNotFound, code: CodeNotFound,
		},
		{
			name:   "wrong password",
			path:   "/api/v1/auth/login",
			body:   map[string]string{"email": "alice_01@example.com", "password": "wrong-pass1"},
			status: http.StatusUnauthorized, code: CodeUnauthorized,
		},
		{
			name:   "missing refresh token",
			path:   "/api/v1/auth/refresh",
			body:   map[string]string{},
			status: http.StatusBadRequest, code: CodeValidation,
		},
		{
			name:   "logout without token",
			path:   "/api/v1/auth/logout",
			status: http.StatusUnauthorized, code: CodeUnauthorized,
		},
		{
			name:   "logout with garbage token",
			path:   "/api/v1/auth/logout",
			token:  "not-a-jwt",
			status: http.StatusUnauthorized, code: CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, tt.path, tt.body, tt.token)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestAuth_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")

	rec := srv.do(http.MethodGet, "/api/v1/recommendations", nil, alice.Refresh)
	expectError(t, rec, http.StatusUnauthorized, CodeUnauthorized)
}

func TestAuth_RateLimited(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.AuthRateLimitRequests = 2
	srv := newTestServer(t, mw)

	body := map[string]string{"email": "ghost@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		rec := srv.do(http.MethodPost, "/api/v1/auth/login", body, "")
		expectError(t, rec, http.StatusNotFound, CodeNotFound)
	}
	rec := srv.do(http.MethodPost, "/api/v1/auth/login", body, "")
	expectError(t, rec, http.StatusTooManyRequests, CodeRateLimited)

	// Other routes have their own budget.
	rec = srv.do(http.MethodGet, "/api/v1/health", nil, "")
	expectStatus(t, rec, http.StatusOK)
}
