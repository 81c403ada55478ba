// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"slices"
)

// Array operators used inside Update callbacks.

// AddToSet appends the values not already in s. It reports whether s grew.
func AddToSet[E comparable](s []E, values ...E) ([]E, bool) {
	grew := false
	for _, v := range values {
		if !slices.Contains(s, v) {
			s = append(s, v)
			grew = true
		}
	}
	return s, grew
}

// Push appends values unconditionally.
func Push[E any](s []E, values ...E) []E {
	return append(s, values...)
}

// Pull removes every element matching pred and returns the removed ones.
func Pull[E any](s []E, pred func(E) bool) (kept, removed []E) {
	kept = s[:0:0]
	for _, e := range s {
		if pred(e) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}
