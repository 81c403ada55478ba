// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package taxonomy holds the static category to keyword table used to tag
// bios and infer categories, plus a compiled whole-word keyword matcher.
//
// The table is loaded once per process and never changes:
//
//	t := taxonomy.Default()
//	tags := t.Matcher().Keywords("Weekend gamer, part-time chef")
//	// [chef gamer]
//	t.CategoriesFor("chef")
//	// [food & cooking]
package taxonomy
