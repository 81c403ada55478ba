// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package models

import (
	"slices"
	"time"
)

// ContentType is the media kind of a story.
type ContentType string

const (
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentAudio ContentType = "audio"
	ContentText  ContentType = "text"
)

// Valid reports whether c is a known content type.
func (c ContentType) Valid() bool {
	switch c {
	case ContentImage, ContentVideo, ContentAudio, ContentText:
		return true
	}
	return false
}

// MaxCaptionLength bounds story captions, in characters.
const MaxCaptionLength = 300

// StoryDetails is the user-supplied part of a story.
type StoryDetails struct {
	ContentURL  string      `json:"content_url,omitempty"`
	ContentType ContentType `json:"content_type"`
	Caption     string      `json:"caption,omitempty"`
	Mentions    []string    `json:"mentions"`
}

// Story is a single content unit. The embedded lists only grow.
type Story struct {
	StoryID   string       `json:"story_id"`
	Details   StoryDetails `json:"details"`
	CreatedAt time.Time    `json:"created_at"`
	Views     []View       `json:"views"`
	Reactions []Reaction   `json:"reactions"`
	Reposts   []Repost     `json:"reposts"`
	Shares    []Share      `json:"shares"`
}

// Snapshot captures the story for embedding in a reaction or repost.
func (s *Story) Snapshot(authorID string, at time.Time) EmbedSnapshot {
	return EmbedSnapshot{
		StoryID:      s.StoryID,
		AuthorID:     authorID,
		ThumbnailURL: s.Details.ContentURL,
		ContentType:  s.Details.ContentType,
		Caption:      s.Details.Caption,
		Timestamp:    at,
	}
}

// HasViewer reports whether userID is already in the story's views.
func (s *Story) HasViewer(userID string) bool {
	return slices.ContainsFunc(s.Views, func(v View) bool { return v.UserID == userID })
}

// View records a viewer on a story.
type View struct {
	UserID   string    `json:"user_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// EmbedSnapshot is a denormalized copy of a story at interaction time.
type EmbedSnapshot struct {
	StoryID      string      `json:"story_id"`
	AuthorID     string      `json:"author_id"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	ContentType  ContentType `json:"content_type"`
	Caption      string      `json:"caption,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Reaction is a reaction to a story.
type Reaction struct {
	UserID    string        `json:"user_id"`
	Story     EmbedSnapshot `json:"story"`
	ReactedAt time.Time     `json:"reacted_at"`
}

// Repost is a repost of a story.
type Repost struct {
	UserID     string        `json:"user_id"`
	Story      EmbedSnapshot `json:"story"`
	RepostedAt time.Time     `json:"reposted_at"`
}

// SharePlatformApp is the only platform tag shares carry.
const SharePlatformApp = "app"

// Share records a share of a story.
type Share struct {
	UserID   string    `json:"user_id"`
	Platform string    `json:"platform"`
	SharedAt time.Time `json:"shared_at"`
}

// StoryDocument groups all stories of one owner.
type StoryDocument struct {
	User    UserPreview `json:"user"`
	Stories []Story     `json:"stories"`
}

// Find returns the index of storyID, or -1.
func (d *StoryDocument) Find(storyID string) int {
	return slices.IndexFunc(d.Stories, func(s Story) bool { return s.StoryID == storyID })
}

// StoryIDs returns the ids of all stories in the document.
func (d *StoryDocument) StoryIDs() []string {
	ids := make([]string, len(d.Stories))
	for i := range d.Stories {
		ids[i] = d.Stories[i].StoryID
	}
	return ids
}

// WatchHistory is the seen state of one viewer for one target.
// Both sets only grow.
type WatchHistory struct {
	ViewerID       string    `json:"viewer_id"`
	TargetID       string    `json:"target_id"`
	ViewedStories  []string  `json:"viewed_stories"`
	SkippedStories []string  `json:"skipped_stories"`
	LastSeen       time.Time `json:"last_seen"`
}

// Seen reports whether storyID was viewed or skipped.
func (w *WatchHistory) Seen(storyID string) bool {
	return slices.Contains(w.ViewedStories, storyID) || slices.Contains(w.SkippedStories, storyID)
}

// ViewerLog is the set of users that viewed a target.
type ViewerLog struct {
	TargetID    string    `json:"target_id"`
	Viewers     []string  `json:"viewers"`
	LastUpdated time.Time `json:"last_updated"`
}
