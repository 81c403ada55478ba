// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

// Repositories bundles every repository over one database.
type Repositories struct {
	DB           *DB
	Users        *Users
	Stories      *Stories
	WatchHistory *WatchHistory
	ViewerLogs   *ViewerLogs
}

// NewRepositories builds all repositories on db.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		DB:           db,
		Users:        NewUsers(db),
		Stories:      NewStories(db),
		WatchHistory: NewWatchHistory(db),
		ViewerLogs:   NewViewerLogs(db),
	}
}
