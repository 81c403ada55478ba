// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package interaction applies view, skip, react, share and repost actions.
//
// A Recorder updates the viewer's seen state, the story's embedded lists,
// the viewer's behavioral tags (toward the target owner's categories) and the
// target's profile score. It then drops the viewer's cached feed and publishes
// a models.InteractionEvent.
//
// Action weights:
//
//	view    1
//	skip   -2
//	react   2
//	share   3
//	repost  2
//
// Storage, cache and event bus are consumed through the small interfaces in
// this package; *store.Users, *store.Stories, *store.WatchHistory,
// *store.ViewerLogs, any cache.Store and *events.Publisher satisfy them.
package interaction
