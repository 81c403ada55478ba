// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Query selects documents from a collection.
type Query[T any] struct {
	// Prefix restricts the scan to ids starting with Prefix.
	Prefix string

	// Filter keeps documents for which it returns true. Nil keeps all.
	Filter func(*T) bool

	// Less sorts the matches. Nil keeps key order.
	Less func(a, b *T) bool

	Skip  int
	Limit int
}

// Collection is a typed set of JSON documents under one key prefix.
type Collection[T any] struct {
	db     *DB
	prefix string
}

// NewCollection returns the collection stored under name.
func NewCollection[T any](db *DB, name string) *Collection[T] {
	return &Collection[T]{db: db, prefix: name + "/"}
}

func (c *Collection[T]) key(id string) []byte {
	return []byte(c.prefix + id)
}

// Get returns the document id.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc *T
	err := c.db.view(ctx, func(txn *badger.Txn) error {
		var err error
		doc, err = c.get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert stores doc under id. It fails with ErrExists when id is taken.
func (c *Collection[T]) Insert(ctx context.Context, id string, doc *T) error {
	return c.db.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(c.key(id)); err == nil {
			return ErrExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get %s%s: %w", c.prefix, id, err)
		}
		return c.set(txn, id, doc)
	})
}

// Put stores doc under id, replacing any previous version.
func (c *Collection[T]) Put(ctx context.Context, id string, doc *T) error {
	return c.db.update(ctx, func(txn *badger.Txn) error {
		return c.set(txn, id, doc)
	})
}

// Delete removes id. It returns ErrNotFound if the document does not exist.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.db.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(c.key(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(c.key(id))
	})
}

// Update applies fn to document id in one transaction and stores the result.
// fn may run more than once on conflict. An error from fn aborts the write.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	var out *T
	err := c.db.update(ctx, func(txn *badger.Txn) error {
		doc, err := c.get(txn, id)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		out = doc
		return c.set(txn, id, doc)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert is Update that starts from init() when the document is absent.
func (c *Collection[T]) Upsert(ctx context.Context, id string, init func() *T, fn func(*T) error) (*T, error) {
	var out *T
	err := c.db.update(ctx, func(txn *badger.Txn) error {
		doc, err := c.get(txn, id)
		if errors.Is(err, ErrNotFound) {
			doc = init()
		} else if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		out = doc
		return c.set(txn, id, doc)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find scans the collection and returns the documents matching q.
func (c *Collection[T]) Find(ctx context.Context, q Query[T]) ([]T, error) {
	var matches []T

	// Without a sort the scan can stop once skip+limit documents matched.
	stopAt := -1
	if q.Less == nil && q.Limit > 0 {
		stopAt = q.Skip + q.Limit
	}

	err := c.db.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(c.prefix + q.Prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var doc T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if q.Filter != nil && !q.Filter(&doc) {
				continue
			}
			matches = append(matches, doc)
			if stopAt > 0 && len(matches) >= stopAt {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if q.Less != nil {
		sort.SliceStable(matches, func(i, j int) bool {
			return q.Less(&matches[i], &matches[j])
		})
	}
	return paginate(matches, q.Skip, q.Limit), nil
}

// Count returns the number of documents under the collection prefix.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	count := 0
	err := c.db.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(c.prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (c *Collection[T]) get(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(c.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s%s: %w", c.prefix, id, err)
	}

	var doc T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, fmt.Errorf("decode %s%s: %w", c.prefix, id, err)
	}
	return &doc, nil
}

func (c *Collection[T]) set(txn *badger.Txn, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s%s: %w", c.prefix, id, err)
	}
	if err := txn.Set(c.key(id), data); err != nil {
		return fmt.Errorf("set %s%s: %w", c.prefix, id, err)
	}
	return nil
}

func (c *Collection[T]) del(txn *badger.Txn, id string) error {
	if err := txn.Delete(c.key(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s%s: %w", c.prefix, id, err)
	}
	return nil
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
