// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/thebox/internal/models"
)

const (
	collUsers         = "users"
	idxEmailPrefix    = "idx/email/"
	idxUsernamePrefix = "idx/username/"
)

// UserQuery selects users. Zero fields do not filter.
type UserQuery struct {
	// ExcludeIDs drops these users.
	ExcludeIDs []string

	// IDs restricts the result to this set.
	IDs []string

	// Location matches exactly, case-insensitive.
	Location string

	// MinScore and MaxScore bound the profile score, inclusive.
	MinScore int
	MaxScore int

	// AnyTags keeps users whose behavioral tags, interests, bio tags or
	// categories contain at least one of these, case-insensitive.
	AnyTags []string

	// SortByScore orders by profile score descending, then user id.
	SortByScore bool

	Skip  int
	Limit int
}

func (q UserQuery) filter() func(*models.User) bool {
	exclude := toSet(q.ExcludeIDs, false)
	var only map[string]struct{}
	if len(q.IDs) > 0 {
		only = toSet(q.IDs, false)
	}
	tags := toSet(q.AnyTags, true)
	location := strings.ToLower(strings.TrimSpace(q.Location))

	return func(u *models.User) bool {
		if _, ok := exclude[u.UserID]; ok {
			return false
		}
		if only != nil {
			if _, ok := only[u.UserID]; !ok {
				return false
			}
		}
		if location != "" && strings.ToLower(strings.TrimSpace(u.Location)) != location {
			return false
		}
		score := u.ProfileSignature.ProfileScore
		if q.MinScore > 0 && score < q.MinScore {
			return false
		}
		if q.MaxScore > 0 && score > q.MaxScore {
			return false
		}
		if len(tags) > 0 && !hasAnyTag(&u.ProfileSignature, tags) {
			return false
		}
		return true
	}
}

func hasAnyTag(sig *models.ProfileSignature, tags map[string]struct{}) bool {
	for _, src := range [][]string{sig.BehavioralTags, sig.Interests, sig.BioTags, sig.Category} {
		for _, t := range src {
			if _, ok := tags[strings.ToLower(t)]; ok {
				return true
			}
		}
	}
	return false
}

func byScoreDesc(a, b *models.User) bool {
	sa, sb := a.ProfileSignature.ProfileScore, b.ProfileSignature.ProfileScore
	if sa != sb {
		return sa > sb
	}
	return a.UserID < b.UserID
}

// Users is the user account repository. Email and username are unique,
// enforced through index keys written in the same transaction as the user.
type Users struct {
	db   *DB
	docs *Collection[models.User]
}

// NewUsers returns the user repository.
func NewUsers(db *DB) *Users {
	return &Users{db: db, docs: NewCollection[models.User](db, collUsers)}
}

func emailKey(email string) []byte {
	return []byte(idxEmailPrefix + strings.ToLower(strings.TrimSpace(email)))
}

func usernameKey(username string) []byte {
	return []byte(idxUsernamePrefix + strings.ToLower(strings.TrimSpace(username)))
}

// Get returns user id.
func (r *Users) Get(ctx context.Context, id string) (*models.User, error) {
	return r.docs.Get(ctx, id)
}

// GetByEmail looks a user up by email, case-insensitive.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByIndex(ctx, emailKey(email))
}

// GetByUsername looks a user up by username, case-insensitive.
func (r *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByIndex(ctx, usernameKey(username))
}

func (r *Users) getByIndex(ctx context.Context, key []byte) (*models.User, error) {
	var user *models.User
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		id, err := readIndex(txn, key)
		if err != nil {
			return err
		}
		user, err = r.docs.get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Insert stores a new user. It fails with ErrEmailTaken or ErrUsernameTaken
// on a collision and ErrExists if the id is taken.
func (r *Users) Insert(ctx context.Context, u *models.User) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		if _, err := r.docs.get(txn, u.UserID); err == nil {
			return ErrExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := claimIndex(txn, emailKey(u.Email), u.UserID, ErrEmailTaken); err != nil {
			return err
		}
		if err := claimIndex(txn, usernameKey(u.Username), u.UserID, ErrUsernameTaken); err != nil {
			return err
		}
		return r.docs.set(txn, u.UserID, u)
	})
}

// Update applies fn to user id. Email and username changes are re-indexed
// atomically with the document.
func (r *Users) Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	var out *models.User
	err := r.db.update(ctx, func(txn *badger.Txn) error {
		u, err := r.docs.get(txn, id)
		if err != nil {
			return err
		}
		oldEmail, oldUsername := u.Email, u.Username

		if err := fn(u); err != nil {
			return err
		}
		u.UserID = id

		if err := reindex(txn, emailKey(oldEmail), emailKey(u.Email), id, ErrEmailTaken); err != nil {
			return err
		}
		if err := reindex(txn, usernameKey(oldUsername), usernameKey(u.Username), id, ErrUsernameTaken); err != nil {
			return err
		}
		out = u
		return r.docs.set(txn, id, u)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes user id and its index entries.
func (r *Users) Delete(ctx context.Context, id string) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		u, err := r.docs.get(txn, id)
		if err != nil {
			return err
		}
		if err := deleteKey(txn, emailKey(u.Email)); err != nil {
			return err
		}
		if err := deleteKey(txn, usernameKey(u.Username)); err != nil {
			return err
		}
		return r.docs.del(txn, id)
	})
}

// Find returns the users matching q.
func (r *Users) Find(ctx context.Context, q UserQuery) ([]models.User, error) {
	query := Query[models.User]{
		Filter: q.filter(),
		Skip:   q.Skip,
		Limit:  q.Limit,
	}
	if q.SortByScore {
		query.Less = byScoreDesc
	}
	return r.docs.Find(ctx, query)
}

// List returns users in id order.
func (r *Users) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return r.docs.Find(ctx, Query[models.User]{Skip: skip, Limit: limit})
}

// Count returns the number of users.
func (r *Users) Count(ctx context.Context) (int, error) {
	return r.docs.Count(ctx)
}

func readIndex(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read index %s: %w", key, err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", fmt.Errorf("read index %s: %w", key, err)
	}
	return string(val), nil
}

// claimIndex points key at id, failing with taken when another id holds it.
func claimIndex(txn *badger.Txn, key []byte, id string, taken error) error {
	owner, err := readIndex(txn, key)
	switch {
	case err == nil && owner != id:
		return taken
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return txn.Set(key, []byte(id))
}

func reindex(txn *badger.Txn, oldKey, newKey []byte, id string, taken error) error {
	if string(oldKey) == string(newKey) {
		return nil
	}
	if err := claimIndex(txn, newKey, id, taken); err != nil {
		return err
	}
	return deleteKey(txn, oldKey)
}

func deleteKey(txn *badger.Txn, key []byte) error {
	if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func toSet(values []string, fold bool) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if fold {
			v = strings.ToLower(strings.TrimSpace(v))
		}
		set[v] = struct{}{}
	}
	return set
}
