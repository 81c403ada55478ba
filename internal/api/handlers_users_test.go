// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/models"
)

func TestUsers_GetAndList(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	srv.signup("bob_01", "Lagos")
	srv.signup("carol_01", "Accra")

	rec := srv.do(http.MethodGet, "/api/v1/users/"+alice.ID, nil, "")
	expectStatus(t, rec, http.StatusOK)
	var preview models.UserPreview
	decode(t, rec, &preview)
	if preview.UserID != alice.ID || preview.Username != "alice_01" {
		t.Errorf("preview = %+v", preview)
	}

	rec = srv.do(http.MethodGet, "/api/v1/users/nobody", nil, "")
	expectError(t, rec, http.StatusNotFound, CodeNotFound)

	rec = srv.do(http.MethodGet, "/api/v1/users?skip=1&limit=1", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var page UserList
	decode(t, rec, &page)
	if len(page.Users) != 1 || page.Page.Skip != 1 || page.Page.Limit != 1 || page.Page.Count != 1 {
		t.Errorf("page = %+v", page)
	}

	rec = srv.do(http.MethodGet, "/api/v1/users?limit=5000&skip=-3", nil, "")
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &page)
	if page.Page.Limit != 100 || page.Page.Skip != 0 || len(page.Users) != 3 {
		t.Errorf("clamped page = %+v", page.Page)
	}
}

func TestUsers_UpdateMe(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")

	rec := srv.do(http.MethodPut, "/api/v1/users/me", map[string]interface{}{
		"bio":       "I cook and travel",
		"interests": []string{"food"},
	}, alice.Access)
	expectStatus(t, rec, http.StatusOK)
	var profile models.UserProfile
	decode(t, rec, &profile)
	if profile.Bio != "I cook and travel" {
		t.Errorf("bio = %q", profile.Bio)
	}

	rec = srv.do(http.MethodPut, "/api/v1/users/me", map[string]interface{}{}, alice.Access)
	expectError(t, rec, http.StatusBadRequest, CodeValidation)

	rec = srv.do(http.MethodPut, "/api/v1/users/me", map[string]interface{}{"age": 5}, alice.Access)
	apiErr := expectError(t, rec, http.StatusBadRequest, CodeValidation)
	if apiErr.Details["field"] != "age" {
		t.Errorf("details = %v, want field age", apiErr.Details)
	}

	rec = srv.do(http.MethodPut, "/api/v1/users/me", map[string]interface{}{"bio": "x"}, "")
	expectError(t, rec, http.StatusUnauthorized, CodeUnauthorized)
}

func TestUsers_DeleteMe(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	srv.postText(alice, "bye")

	rec := srv.do(http.MethodDelete, "/api/v1/users/me", nil, alice.Access)
	expectStatus(t, rec, http.StatusOK)

	rec = srv.do(http.MethodGet, "/api/v1/users/"+alice.ID, nil, "")
	expectError(t, rec, http.StatusNotFound, CodeNotFound)

	if _, err := srv.repos.Stories.GetDocument(context.Background(), alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stories after delete: err = %v, want not found", err)
	}

	// The token still verifies but the account is gone.
	rec = srv.do(http.MethodDelete, "/api/v1/users/me", nil, alice.Access)
	expectError(t, rec, http.StatusNotFound, CodeNotFound)
}
