// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/thebox/internal/models"
)

const (
	collViews   = "views"
	collViewers = "viewers"
)

// WatchHistory stores per (viewer, target) seen sets under views/{viewer}/{target}.
// The sets only grow; the timestamp moves only when a set grows, so repeating
// an add is a no-op.
type WatchHistory struct {
	db   *DB
	docs *Collection[models.WatchHistory]
}

// NewWatchHistory returns the watch history repository.
func NewWatchHistory(db *DB) *WatchHistory {
	return &WatchHistory{db: db, docs: NewCollection[models.WatchHistory](db, collViews)}
}

func pairID(viewer, target string) string {
	return viewer + "/" + target
}

// AddViewed adds storyIDs to the viewed set. It reports whether the set grew.
func (r *WatchHistory) AddViewed(ctx context.Context, viewer, target string, at time.Time, storyIDs ...string) (bool, error) {
	return r.add(ctx, viewer, target, at, func(h *models.WatchHistory) bool {
		var grew bool
		h.ViewedStories, grew = AddToSet(h.ViewedStories, storyIDs...)
		return grew
	})
}

// AddSkipped adds storyIDs to the skipped set. It reports whether the set grew.
func (r *WatchHistory) AddSkipped(ctx context.Context, viewer, target string, at time.Time, storyIDs ...string) (bool, error) {
	return r.add(ctx, viewer, target, at, func(h *models.WatchHistory) bool {
		var grew bool
		h.SkippedStories, grew = AddToSet(h.SkippedStories, storyIDs...)
		return grew
	})
}

func (r *WatchHistory) add(ctx context.Context, viewer, target string, at time.Time, apply func(*models.WatchHistory) bool) (bool, error) {
	var grew bool
	init := func() *models.WatchHistory {
		return &models.WatchHistory{
			ViewerID:       viewer,
			TargetID:       target,
			ViewedStories:  []string{},
			SkippedStories: []string{},
		}
	}
	_, err := r.docs.Upsert(ctx, pairID(viewer, target), init, func(h *models.WatchHistory) error {
		grew = apply(h)
		if grew {
			h.LastSeen = at.UTC()
		}
		return nil
	})
	return grew, err
}

// Get returns the history of viewer for target. A pair with no history yields
// an empty record, not an error.
func (r *WatchHistory) Get(ctx context.Context, viewer, target string) (*models.WatchHistory, error) {
	h, err := r.docs.Get(ctx, pairID(viewer, target))
	if errors.Is(err, ErrNotFound) {
		return &models.WatchHistory{ViewerID: viewer, TargetID: target}, nil
	}
	return h, err
}

// ListByViewer returns every history record of viewer.
func (r *WatchHistory) ListByViewer(ctx context.Context, viewer string) ([]models.WatchHistory, error) {
	return r.docs.Find(ctx, Query[models.WatchHistory]{Prefix: viewer + "/"})
}

// DeleteUser removes every record where id is the viewer or the target.
func (r *WatchHistory) DeleteUser(ctx context.Context, id string) (int, error) {
	records, err := r.docs.Find(ctx, Query[models.WatchHistory]{
		Filter: func(h *models.WatchHistory) bool { return h.ViewerID == id || h.TargetID == id },
	})
	if err != nil {
		return 0, err
	}
	err = r.db.update(ctx, func(txn *badger.Txn) error {
		for _, h := range records {
			if err := r.docs.del(txn, pairID(h.ViewerID, h.TargetID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ViewerLogs stores the viewer set of each target under viewers/{target}.
type ViewerLogs struct {
	docs *Collection[models.ViewerLog]
}

// NewViewerLogs returns the viewer log repository.
func NewViewerLogs(db *DB) *ViewerLogs {
	return &ViewerLogs{docs: NewCollection[models.ViewerLog](db, collViewers)}
}

// AddViewer adds viewer to target's log. It reports whether the set grew.
func (r *ViewerLogs) AddViewer(ctx context.Context, target, viewer string, at time.Time) (bool, error) {
	var grew bool
	init := func() *models.ViewerLog {
		return &models.ViewerLog{TargetID: target, Viewers: []string{}}
	}
	_, err := r.docs.Upsert(ctx, target, init, func(l *models.ViewerLog) error {
		l.Viewers, grew = AddToSet(l.Viewers, viewer)
		if grew {
			l.LastUpdated = at.UTC()
		}
		return nil
	})
	return grew, err
}

// Get returns target's viewer log, empty if nobody viewed it yet.
func (r *ViewerLogs) Get(ctx context.Context, target string) (*models.ViewerLog, error) {
	l, err := r.docs.Get(ctx, target)
	if errors.Is(err, ErrNotFound) {
		return &models.ViewerLog{TargetID: target, Viewers: []string{}}, nil
	}
	return l, err
}

// Delete drops target's viewer log.
func (r *ViewerLogs) Delete(ctx context.Context, target string) error {
	err := r.docs.Delete(ctx, target)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
