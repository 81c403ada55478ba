// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package stories creates, lists, edits and deletes stories.
//
// Each owner has one StoryDocument holding all of their stories. New stories
// are appended to it, creating it on first use. Media stories keep their
// bytes in a Media store; LocalMedia writes them under a directory and
// serves them back as {base_url}/media/{uuid}{ext}.
//
// Documents are cached under cache.StoriesKey for 24 hours. Every write to a
// document drops that key.
package stories
