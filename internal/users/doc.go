// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package users implements signup, login, token refresh and profile
// management.
//
// Passwords are bcrypt hashes. Login issues an access and a refresh JWT and
// stores the refresh token on the account; Refresh only redeems the stored
// one and rotates both. A verified refresh token that is not the stored one
// is rejected with apperr.ErrForbidden.
//
// Previews are cached under cache.UserKey for 30 days and dropped on update
// or delete.
package users
