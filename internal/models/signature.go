// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package models

import (
	"slices"
)

// Signature thresholds and bounds.
const (
	// PromoteThreshold is the category_test score at which a category joins behavioral_tags.
	PromoteThreshold = 5

	// DemoteThreshold is the score below which a category leaves behavioral_tags.
	DemoteThreshold = 2

	// MinProfileScore and MaxProfileScore bound profile_score.
	MinProfileScore = 25
	MaxProfileScore = 200

	// DefaultProfileScore is the midpoint a new signature starts at.
	DefaultProfileScore = 50
)

// ProfileSignature is a user's interest and popularity state.
//
// For every category c the following hold after any sequence of ApplyWeight calls:
//
//	CategoryTest[c] >= PromoteThreshold  =>  c in BehavioralTags
//	CategoryTest[c] <  DemoteThreshold   =>  c not in BehavioralTags
//	CategoryTest[c] >= 0
//
// Scores in between leave membership unchanged. Mutate through the methods
// rather than by editing the fields.
type ProfileSignature struct {
	// Category holds the inferred top-level categories.
	Category []string `json:"category"`

	// Interests are the user-declared tags, lower-cased.
	Interests []string `json:"interests"`

	// BioTags are taxonomy keywords found in the bio.
	BioTags []string `json:"bio_tags"`

	// BehavioralTags are categories promoted by interaction history.
	BehavioralTags []string `json:"behavioral_tags"`

	// Location is an optional free-form place name.
	Location string `json:"location,omitempty"`

	// CategoryTest is the raw per-category score before promotion.
	CategoryTest map[string]int `json:"category_test"`

	// ProfileScore is the popularity score, bounded [MinProfileScore, MaxProfileScore].
	ProfileScore int `json:"profile_score"`
}

// NewProfileSignature returns an empty signature at the default score.
func NewProfileSignature() ProfileSignature {
	return ProfileSignature{
		Category:       []string{},
		Interests:      []string{},
		BioTags:        []string{},
		BehavioralTags: []string{},
		CategoryTest:   map[string]int{},
		ProfileScore:   DefaultProfileScore,
	}
}

// Promote adds category to BehavioralTags if its score has reached
// PromoteThreshold. It reports whether the tag set changed.
func (s *ProfileSignature) Promote(category string) bool {
	if s.CategoryTest[category] < PromoteThreshold || s.HasBehavioralTag(category) {
		return false
	}
	s.BehavioralTags = append(s.BehavioralTags, category)
	return true
}

// Demote removes category from BehavioralTags if its score is below
// DemoteThreshold. It reports whether the tag set changed.
func (s *ProfileSignature) Demote(category string) bool {
	if s.CategoryTest[category] >= DemoteThreshold {
		return false
	}
	idx := slices.Index(s.BehavioralTags, category)
	if idx < 0 {
		return false
	}
	s.BehavioralTags = slices.Delete(s.BehavioralTags, idx, idx+1)
	return true
}

// ApplyWeight adds weight to CategoryTest[category], floored at zero, then
// promotes or demotes the category. It returns the new score.
func (s *ProfileSignature) ApplyWeight(category string, weight int) int {
	if s.CategoryTest == nil {
		s.CategoryTest = map[string]int{}
	}
	score := max(0, s.CategoryTest[category]+weight)
	s.CategoryTest[category] = score

	s.Promote(category)
	s.Demote(category)
	return score
}

// AdjustScore adds delta to ProfileScore and clamps the result.
func (s *ProfileSignature) AdjustScore(delta int) int {
	s.ProfileScore = ClampProfileScore(s.ProfileScore + delta)
	return s.ProfileScore
}

// HasBehavioralTag reports whether category is a behavioral tag.
func (s *ProfileSignature) HasBehavioralTag(category string) bool {
	return slices.Contains(s.BehavioralTags, category)
}

// Clone returns a deep copy.
func (s ProfileSignature) Clone() ProfileSignature {
	out := s
	out.Category = slices.Clone(s.Category)
	out.Interests = slices.Clone(s.Interests)
	out.BioTags = slices.Clone(s.BioTags)
	out.BehavioralTags = slices.Clone(s.BehavioralTags)
	out.CategoryTest = make(map[string]int, len(s.CategoryTest))
	for k, v := range s.CategoryTest {
		out.CategoryTest[k] = v
	}
	return out
}

// ClampProfileScore bounds v to [MinProfileScore, MaxProfileScore].
func ClampProfileScore(v int) int {
	return min(MaxProfileScore, max(MinProfileScore, v))
}
