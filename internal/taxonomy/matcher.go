// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package taxonomy

import (
	"sort"
	"strings"
	"unicode"
)

// Matcher finds whole-word keyword occurrences in text using an Aho-Corasick
// automaton. Matching runs in O(n + m + z) for text length n, total keyword
// length m and z raw hits.
//
// A hit counts only if both its edges are word boundaries. A boundary lies
// between two runes when exactly one of them is a word rune (letter, digit
// or underscore); the text edges count as non-word. This means a keyword
// that starts with a non-word rune such as "#" needs a word rune before it.
//
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	root     *acNode
	patterns []pattern
}

type pattern struct {
	text  string
	runes int
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int
}

// Match is a keyword hit. Start and End are rune offsets into the
// lower-cased text, End exclusive.
type Match struct {
	Keyword string
	Start   int
	End     int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewMatcher compiles the keywords, lower-cased. Empty keywords are ignored.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{root: newACNode()}

	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		m.insert(kw)
	}
	m.buildFailureLinks()
	return m
}

func (m *Matcher) insert(kw string) {
	node := m.root
	n := 0
	for _, ch := range kw {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
		n++
	}
	node.output = append(node.output, len(m.patterns))
	m.patterns = append(m.patterns, pattern{text: kw, runes: n})
}

// buildFailureLinks links every node to its longest proper suffix in the trie (BFS).
func (m *Matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// FindAll returns every whole-word hit in text, ordered by start then length.
func (m *Matcher) FindAll(text string) []Match {
	if len(m.patterns) == 0 {
		return nil
	}
	runes := []rune(strings.ToLower(text))

	var matches []Match
	node := m.root
	for i, ch := range runes {
		for node != m.root && node.children[ch] == nil {
			node = node.failure
		}
		if next := node.children[ch]; next != nil {
			node = next
		}

		for _, idx := range node.output {
			p := m.patterns[idx]
			start, end := i+1-p.runes, i+1
			if boundary(runes, start) && boundary(runes, end) {
				matches = append(matches, Match{Keyword: p.text, Start: start, End: end})
			}
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Start != matches[b].Start {
			return matches[a].Start < matches[b].Start
		}
		return matches[a].End < matches[b].End
	})
	return matches
}

// Keywords returns the distinct keywords found in text, sorted.
func (m *Matcher) Keywords(text string) []string {
	hits := m.FindAll(text)
	if len(hits) == 0 {
		return []string{}
	}
	set := make(map[string]struct{}, len(hits))
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if _, ok := set[h.Keyword]; ok {
			continue
		}
		set[h.Keyword] = struct{}{}
		out = append(out, h.Keyword)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of compiled keywords.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

func boundary(runes []rune, pos int) bool {
	before := pos > 0 && isWord(runes[pos-1])
	after := pos < len(runes) && isWord(runes[pos])
	return before != after
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
