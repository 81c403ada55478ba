// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package models defines the documents, value types and API envelopes shared
across TheBox.

Documents persisted in the store:

  - User: account with its embedded ProfileSignature
  - StoryDocument: all stories of one owner, with append-only views,
    reactions, reposts and shares
  - WatchHistory: viewed and skipped story ids per (viewer, target) pair
  - ViewerLog: viewer ids per target

ProfileSignature owns the promotion invariant for behavioral tags. Its
methods (Promote, Demote, ApplyWeight, AdjustScore) are the only supported
way to mutate it.

API responses are wrapped in APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
*/
package models
