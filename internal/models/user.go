// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package models

import (
	"time"
)

// SignupPlatform identifies where an account was created.
type SignupPlatform string

const (
	PlatformFacebook  SignupPlatform = "facebook"
	PlatformGoogle    SignupPlatform = "google"
	PlatformTikTok    SignupPlatform = "tiktok"
	PlatformX         SignupPlatform = "x"
	PlatformTwitch    SignupPlatform = "twitch"
	PlatformLinkedIn  SignupPlatform = "linkedin"
	PlatformInstagram SignupPlatform = "instagram"
	PlatformUnknown   SignupPlatform = "unknown"
)

// Valid reports whether p is a known platform.
func (p SignupPlatform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformGoogle, PlatformTikTok, PlatformX,
		PlatformTwitch, PlatformLinkedIn, PlatformInstagram, PlatformUnknown:
		return true
	}
	return false
}

// User is the persisted account document.
type User struct {
	UserID          string         `json:"user_id"`
	Username        string         `json:"username"`
	FullName        string         `json:"full_name,omitempty"`
	Email           string         `json:"email"`
	PhoneNumber     string         `json:"phone_number,omitempty"`
	Age             int            `json:"age,omitempty"`
	PasswordHash    string         `json:"password_hash"`
	RefreshToken    string         `json:"refresh_token,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	Interests       []string       `json:"interests"`
	Location        string         `json:"location,omitempty"`
	Contacts        []string       `json:"contacts"`
	ProfileImageURL string         `json:"profile_image_url,omitempty"`
	SignupPlatform  SignupPlatform `json:"signup_platform"`
	IsVerified      bool           `json:"is_verified"`
	IsOnline        bool           `json:"is_online"`
	JoinedAt        time.Time      `json:"joined_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`

	ProfileSignature ProfileSignature `json:"profile_signature"`
}

// Preview returns the public summary of the user.
func (u *User) Preview() UserPreview {
	return UserPreview{
		UserID:     u.UserID,
		Username:   u.Username,
		ProfilePic: u.ProfileImageURL,
	}
}

// Profile returns the user without credentials.
func (u *User) Profile() UserProfile {
	return UserProfile{
		UserID:          u.UserID,
		Username:        u.Username,
		FullName:        u.FullName,
		Bio:             u.Bio,
		Interests:       u.Interests,
		Location:        u.Location,
		ProfileImageURL: u.ProfileImageURL,
		IsVerified:      u.IsVerified,
		IsOnline:        u.IsOnline,
		JoinedAt:        u.JoinedAt,
	}
}

// UserPreview is the minimal user reference embedded in stories and feeds.
type UserPreview struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// UserProfile is the credential-free view returned after profile updates.
type UserProfile struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Interests       []string  `json:"interests"`
	Location        string    `json:"location,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	IsOnline        bool      `json:"is_online"`
	JoinedAt        time.Time `json:"joined_at"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
