// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package auth provides password hashing, bearer tokens and the HTTP
authentication middleware.

Key Components:

  - TokenManager: HS256 access and refresh JWTs. The subject is the user id
    and a "type" claim separates access from refresh tokens, so a refresh
    token is never accepted as an access token.
  - Hasher: bcrypt password hashing with a configurable cost.
  - Middleware: RequireAuth validates "Authorization: Bearer <access token>"
    and stores the actor id in the request context.

Token lifetimes default to 120 days (access) and 90 days (refresh). Refresh
tokens are also stored on the user record; the users service rotates both on
refresh and rejects a refresh token that no longer matches.

Example:

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(tokens)

	r.Group(func(r chi.Router) {
	    r.Use(mw.RequireAuth)
	    r.Get("/recommendations", h.Recommendations)
	})

	func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	    actorID := auth.ActorID(r.Context())
	    ...
	}
*/
package auth
