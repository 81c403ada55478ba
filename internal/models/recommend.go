// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package models

import (
	"time"
)

// StoryBundle is a user preview with the stories the requester has not seen.
type StoryBundle struct {
	User    UserPreview `json:"user"`
	Stories []Story     `json:"stories"`
}

// Candidate is a suggested user.
type Candidate struct {
	UserID          string   `json:"user_id"`
	Username        string   `json:"username"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	Score           int      `json:"score"`
	Reason          []string `json:"reason"`
}

// Feed is the personalized recommendation result.
// Suggested is only set when Stories is empty.
type Feed struct {
	Stories     []StoryBundle `json:"stories"`
	Suggested   []Candidate   `json:"suggested,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Discovery is the anonymous explore result.
type Discovery struct {
	Signature   ProfileSignature `json:"signature"`
	Suggested   []Candidate      `json:"suggested"`
	GeneratedAt time.Time        `json:"generated_at"`
}
