// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package taxonomy

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

// Table maps category names to normalized keyword sets.
// A Table is immutable after New and safe for concurrent use.
type Table struct {
	categories []string
	keywords   map[string][]string
	sets       map[string]map[string]struct{}
	byKeyword  map[string][]string

	matcherOnce sync.Once
	matcher     *Matcher
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default returns the built-in table, built on first use.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New(defaultKeywords)
	})
	return defaultTable
}

// New builds a table from a category to keywords mapping. Categories and
// keywords are case-folded and trimmed; empty and duplicate entries are dropped.
func New(src map[string][]string) *Table {
	t := &Table{
		keywords:  make(map[string][]string, len(src)),
		sets:      make(map[string]map[string]struct{}, len(src)),
		byKeyword: make(map[string][]string),
	}

	for rawCategory, words := range src {
		category := normalize(rawCategory)
		if category == "" {
			continue
		}
		set := t.sets[category]
		if set == nil {
			set = make(map[string]struct{}, len(words))
			t.sets[category] = set
		}
		for _, w := range words {
			kw := normalize(w)
			if kw == "" {
				continue
			}
			if _, dup := set[kw]; dup {
				continue
			}
			set[kw] = struct{}{}
			t.keywords[category] = append(t.keywords[category], kw)
			t.byKeyword[kw] = append(t.byKeyword[kw], category)
		}
	}

	for category := range t.sets {
		t.categories = append(t.categories, category)
		sort.Strings(t.keywords[category])
	}
	sort.Strings(t.categories)
	for kw := range t.byKeyword {
		sort.Strings(t.byKeyword[kw])
	}

	return t
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Categories returns all category names in sorted order.
func (t *Table) Categories() []string {
	return slices.Clone(t.categories)
}

// Keywords returns the sorted keyword list of category, or nil if unknown.
func (t *Table) Keywords(category string) []string {
	return slices.Clone(t.keywords[normalize(category)])
}

// Contains reports whether keyword belongs to category.
func (t *Table) Contains(category, keyword string) bool {
	_, ok := t.sets[normalize(category)][normalize(keyword)]
	return ok
}

// CategoriesFor returns every category whose keyword set contains tag, sorted.
func (t *Table) CategoriesFor(tag string) []string {
	return slices.Clone(t.byKeyword[normalize(tag)])
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.categories)
}

// Matcher returns the whole-word keyword matcher for the table, compiled on
// first call.
func (t *Table) Matcher() *Matcher {
	t.matcherOnce.Do(func() {
		words := make([]string, 0, len(t.byKeyword))
		for kw := range t.byKeyword {
			words = append(words, kw)
		}
		sort.Strings(words)
		t.matcher = NewMatcher(words)
	})
	return t.matcher
}
