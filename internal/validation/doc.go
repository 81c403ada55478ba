// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by every request type. Field names in
// error messages come from json tags so clients see the names they sent.
//
// Custom tags:
//   - username: ASCII letters, digits and underscores only
//   - password: must contain at least one letter and one digit
//   - digits: every rune is 0-9
//
// Example:
//
//	type RegisterRequest struct {
//	    Username string `json:"username" validate:"required,min=3,max=50,username"`
//	    Password string `json:"password" validate:"required,min=8,password"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code / apiErr.Message
//	}
package validation
