// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package users

import (
	"strings"

	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/signature"
)

// RegisterInput is the signup request body.
type RegisterInput struct {
	Username        string                `json:"username" validate:"required,min=3,max=50,username"`
	FullName        string                `json:"full_name" validate:"omitempty,max=100"`
	Email           string                `json:"email" validate:"required,email"`
	PhoneNumber     string                `json:"phone_number" validate:"omitempty,min=10,max=16,digits"`
	Password        string                `json:"password" validate:"required,min=8,password"`
	Bio             string                `json:"bio" validate:"omitempty,max=2000"`
	Interests       []string              `json:"interests" validate:"omitempty,max=50,dive,max=50"`
	Location        string                `json:"location" validate:"omitempty,max=100"`
	Contacts        []string              `json:"contacts" validate:"omitempty,max=1000"`
	ProfileImageURL string                `json:"profile_image_url" validate:"omitempty,url"`
	Age             int                   `json:"age" validate:"omitempty,gte=13"`
	SignupPlatform  models.SignupPlatform `json:"signup_platform" validate:"omitempty,oneof=facebook google tiktok x twitch linkedin instagram unknown"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Location = strings.TrimSpace(in.Location)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateInput is a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Username        *string   `json:"username" validate:"omitempty,min=3,max=50,username"`
	FullName        *string   `json:"full_name" validate:"omitempty,max=100"`
	PhoneNumber     *string   `json:"phone_number" validate:"omitempty,min=10,max=16,digits"`
	Bio             *string   `json:"bio" validate:"omitempty,max=2000"`
	Interests       *[]string `json:"interests" validate:"omitempty,max=50,dive,max=50"`
	Location        *string   `json:"location" validate:"omitempty,max=100"`
	Contacts        *[]string `json:"contacts" validate:"omitempty,max=1000"`
	ProfileImageURL *string   `json:"profile_image_url" validate:"omitempty,url"`
	Age             *int      `json:"age" validate:"omitempty,gte=13"`
	IsOnline        *bool     `json:"is_online"`
}

func (in *UpdateInput) normalize() {
	for _, p := range []*string{in.Username, in.FullName, in.PhoneNumber, in.Location} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func (in *UpdateInput) empty() bool {
	return in.Username == nil && in.FullName == nil && in.PhoneNumber == nil &&
		in.Bio == nil && in.Interests == nil && in.Location == nil &&
		in.Contacts == nil && in.ProfileImageURL == nil && in.Age == nil && in.IsOnline == nil
}

// apply copies the set fields onto u and reports whether a signature input
// (bio, interests, location) changed.
func (in *UpdateInput) apply(u *models.User) bool {
	var resign bool
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Bio != nil && *in.Bio != u.Bio {
		u.Bio = *in.Bio
		resign = true
	}
	if in.Interests != nil {
		u.Interests = signature.NormalizeTags(*in.Interests)
		resign = true
	}
	if in.Location != nil && *in.Location != u.Location {
		u.Location = *in.Location
		resign = true
	}
	if in.Contacts != nil {
		u.Contacts = nonNil(*in.Contacts)
	}
	if in.ProfileImageURL != nil {
		u.ProfileImageURL = *in.ProfileImageURL
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.IsOnline != nil {
		u.IsOnline = *in.IsOnline
	}
	return resign
}
