// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package signature

import (
	"sort"
	"strings"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/taxonomy"
)

// MinCategoryOverlap is the tag-overlap count a category needs to be inferred.
const MinCategoryOverlap = 2

// Engine derives and updates profile signatures against a taxonomy table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table *taxonomy.Table
}

// New returns an engine over table. A nil table selects taxonomy.Default().
func New(table *taxonomy.Table) *Engine {
	if table == nil {
		table = taxonomy.Default()
	}
	return &Engine{table: table}
}

// Table returns the taxonomy the engine matches against.
func (e *Engine) Table() *taxonomy.Table {
	return e.table
}

// ExtractTags returns the taxonomy keywords that occur as whole words in bio,
// sorted and without duplicates.
func (e *Engine) ExtractTags(bio string) []string {
	if strings.TrimSpace(bio) == "" {
		return []string{}
	}
	return e.table.Matcher().Keywords(bio)
}

// InferCategories counts, per category, how many of the signature's tags fall
// in its keyword set. Bio tags, interests and behavioral tags each count once
// per occurrence; behavioral tags then count a second time. Categories with a
// count of at least MinCategoryOverlap are returned, sorted.
func (e *Engine) InferCategories(sig models.ProfileSignature) []string {
	counts := make(map[string]int)
	tally := func(tags []string) {
		for _, tag := range tags {
			for _, c := range e.table.CategoriesFor(tag) {
				counts[c]++
			}
		}
	}

	tally(sig.BioTags)
	tally(sig.Interests)
	tally(sig.BehavioralTags)
	tally(sig.BehavioralTags)

	out := make([]string, 0, len(counts))
	for c, n := range counts {
		if n >= MinCategoryOverlap {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Generate builds the signature of a new account. Behavioral state starts
// empty and the profile score at models.DefaultProfileScore.
func (e *Engine) Generate(bio string, interests []string, location string) models.ProfileSignature {
	sig := models.NewProfileSignature()
	sig.Interests = NormalizeTags(interests)
	sig.BioTags = e.ExtractTags(bio)
	sig.Location = strings.TrimSpace(location)
	sig.Category = e.InferCategories(sig)
	return sig
}

// Refresh regenerates the declared parts of sig after a profile edit.
// Behavioral tags, category scores and the profile score carry over.
func (e *Engine) Refresh(sig models.ProfileSignature, bio string, interests []string, location string) models.ProfileSignature {
	out := sig.Clone()
	if out.CategoryTest == nil {
		out.CategoryTest = map[string]int{}
	}
	if out.BehavioralTags == nil {
		out.BehavioralTags = []string{}
	}
	if out.ProfileScore == 0 {
		out.ProfileScore = models.DefaultProfileScore
	}
	out.Interests = NormalizeTags(interests)
	out.BioTags = e.ExtractTags(bio)
	out.Location = strings.TrimSpace(location)
	out.Category = e.InferCategories(out)
	return out
}

// MatchingTags merges behavioral tags, interests, bio tags and categories into
// one case-folded frequency count and returns the tags by descending count.
// Ties are broken lexicographically.
func MatchingTags(sig models.ProfileSignature) []string {
	counts := make(map[string]int)
	for _, src := range [][]string{sig.BehavioralTags, sig.Interests, sig.BioTags, sig.Category} {
		for _, tag := range src {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				counts[tag]++
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

// SharedTags returns the tags present in both a and b, in the order of a.
func SharedTags(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0)
	for _, t := range a {
		if _, ok := set[t]; ok {
			out = append(out, t)
			delete(set, t)
		}
	}
	return out
}

// UpdateBehavioralTags applies the weight of action to category on sig.
// An unknown action or empty category is a validation error and leaves sig
// untouched.
func UpdateBehavioralTags(sig *models.ProfileSignature, category string, action models.Action) error {
	weight, ok := action.Weight()
	if !ok {
		return apperr.Validation("action", "unknown action %q", action)
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return apperr.Validation("category", "category is required")
	}
	sig.ApplyWeight(category, weight)
	return nil
}

// AdjustProfileScore moves sig's profile score by the weight of action.
func AdjustProfileScore(sig *models.ProfileSignature, action models.Action) (int, error) {
	weight, ok := action.Weight()
	if !ok {
		return 0, apperr.Validation("action", "unknown action %q", action)
	}
	return sig.AdjustScore(weight), nil
}

// NormalizeTags lower-cases and trims tags, dropping empties and duplicates.
// Input order is kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
