// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package cache

import (
	"sort"
	"strings"
	"time"
)

// Default TTLs per key family.
const (
	RecommendationsTTL = time.Hour
	PublicTTL          = time.Hour
	UserTTL            = 30 * 24 * time.Hour
	StoriesTTL         = 24 * time.Hour
)

// RecommendationsKey is the personalized feed key for userID.
func RecommendationsKey(userID string) string {
	return "recommendations:" + userID
}

// UserKey is the cached user preview key.
func UserKey(userID string) string {
	return "user:" + userID
}

// StoriesKey is the cached story document key for an owner.
func StoriesKey(userID string) string {
	return "stories:" + userID
}

// PublicKey is the anonymous discovery key. Interests are sorted so that the
// same set always maps to the same key; an empty location becomes "any".
func PublicKey(interests []string, location string) string {
	sorted := make([]string, len(interests))
	copy(sorted, interests)
	sort.Strings(sorted)

	if location == "" {
		location = "any"
	}

	return "public:" + strings.Join(sorted, "-") + ":" + location
}
