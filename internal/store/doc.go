// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package store is the embedded document store, built on BadgerDB.

Each document is one JSON value under a prefixed key:

	users/{user_id}              models.User
	stories/{owner_id}           models.StoryDocument
	views/{viewer_id}/{target}   models.WatchHistory
	viewers/{target_id}          models.ViewerLog
	idx/email/{email}            user id
	idx/username/{username}      user id
	idx/story/{story_id}         owner id

Collection[T] provides get, insert, put, delete, atomic read-modify-write
(Update, Upsert) and filtered scans (Find). Read-modify-write runs in one
Badger transaction and is retried on badger.ErrConflict, so concurrent
updates of the same document never lose a write.

Uniqueness of email and username is kept by the index keys, which are
written in the same transaction as the user document.
*/
package store
