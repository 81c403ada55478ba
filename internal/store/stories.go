// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/thebox/internal/models"
)

const (
	collStories    = "stories"
	idxStoryPrefix = "idx/story/"
)

func storyKey(storyID string) []byte {
	return []byte(idxStoryPrefix + storyID)
}

// Stories keeps one StoryDocument per owner plus a story id to owner index.
type Stories struct {
	db   *DB
	docs *Collection[models.StoryDocument]
}

// NewStories returns the story repository.
func NewStories(db *DB) *Stories {
	return &Stories{db: db, docs: NewCollection[models.StoryDocument](db, collStories)}
}

// GetDocument returns the story document of owner.
func (r *Stories) GetDocument(ctx context.Context, owner string) (*models.StoryDocument, error) {
	return r.docs.Get(ctx, owner)
}

// FindStory resolves storyID to its owner's document and the story's index in it.
func (r *Stories) FindStory(ctx context.Context, storyID string) (*models.StoryDocument, int, error) {
	var (
		doc *models.StoryDocument
		idx = -1
	)
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		owner, err := readIndex(txn, storyKey(storyID))
		if err != nil {
			return err
		}
		doc, err = r.docs.get(txn, owner)
		if err != nil {
			return err
		}
		idx = doc.Find(storyID)
		if idx < 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, -1, err
	}
	return doc, idx, nil
}

// Append adds story to owner's document, creating the document on first use.
// The owner preview is refreshed on every append.
func (r *Stories) Append(ctx context.Context, owner models.UserPreview, story models.Story) (*models.StoryDocument, error) {
	var out *models.StoryDocument
	err := r.db.update(ctx, func(txn *badger.Txn) error {
		doc, err := r.docs.get(txn, owner.UserID)
		if errors.Is(err, ErrNotFound) {
			doc = &models.StoryDocument{Stories: []models.Story{}}
		} else if err != nil {
			return err
		}
		doc.User = owner
		doc.Stories = Push(doc.Stories, story)

		if err := txn.Set(storyKey(story.StoryID), []byte(owner.UserID)); err != nil {
			return err
		}
		out = doc
		return r.docs.set(txn, owner.UserID, doc)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStory applies fn to story storyID of owner. It returns ErrNotFound
// when owner has no such story.
func (r *Stories) UpdateStory(ctx context.Context, owner, storyID string, fn func(*models.Story) error) (*models.Story, error) {
	var out models.Story
	_, err := r.docs.Update(ctx, owner, func(doc *models.StoryDocument) error {
		idx := doc.Find(storyID)
		if idx < 0 {
			return ErrNotFound
		}
		if err := fn(&doc.Stories[idx]); err != nil {
			return err
		}
		out = doc.Stories[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PullStory removes story storyID from owner's document and returns it.
func (r *Stories) PullStory(ctx context.Context, owner, storyID string) (*models.Story, error) {
	var removed *models.Story
	err := r.db.update(ctx, func(txn *badger.Txn) error {
		doc, err := r.docs.get(txn, owner)
		if err != nil {
			return err
		}
		kept, pulled := Pull(doc.Stories, func(s models.Story) bool { return s.StoryID == storyID })
		if len(pulled) == 0 {
			return ErrNotFound
		}
		doc.Stories = kept
		removed = &pulled[0]
		if err := deleteKey(txn, storyKey(storyID)); err != nil {
			return err
		}
		return r.docs.set(txn, owner, doc)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// DeleteByOwner drops owner's document and returns the stories it held.
// A missing document is not an error.
func (r *Stories) DeleteByOwner(ctx context.Context, owner string) ([]models.Story, error) {
	var removed []models.Story
	err := r.db.update(ctx, func(txn *badger.Txn) error {
		doc, err := r.docs.get(txn, owner)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, s := range doc.Stories {
			if err := deleteKey(txn, storyKey(s.StoryID)); err != nil {
				return err
			}
		}
		removed = doc.Stories
		return r.docs.del(txn, owner)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// SetOwnerPreview rewrites the embedded owner preview, if owner has a document.
func (r *Stories) SetOwnerPreview(ctx context.Context, preview models.UserPreview) error {
	_, err := r.docs.Update(ctx, preview.UserID, func(doc *models.StoryDocument) error {
		doc.User = preview
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// List returns story documents in owner id order.
func (r *Stories) List(ctx context.Context, skip, limit int) ([]models.StoryDocument, error) {
	return r.docs.Find(ctx, Query[models.StoryDocument]{Skip: skip, Limit: limit})
}
