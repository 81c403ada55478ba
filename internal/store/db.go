// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/logging"
)

// Errors returned by the store. Both wrap an apperr kind so the HTTP layer
// can classify them without importing this package.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = fmt.Errorf("document %w", apperr.ErrNotFound)

	// ErrExists is returned by Insert when the key is already taken.
	ErrExists = fmt.Errorf("document already exists: %w", apperr.ErrConflict)

	// ErrEmailTaken and ErrUsernameTaken are returned when a unique index would collide.
	ErrEmailTaken    = fmt.Errorf("email %w", apperr.ErrConflict)
	ErrUsernameTaken = fmt.Errorf("username %w", apperr.ErrConflict)

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// maxConflictRetries bounds optimistic transaction retries.
const maxConflictRetries = 32

// Config configures the Badger database.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests and dev runs.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Compression enables Snappy block compression.
	Compression bool
}

// DB is the embedded document database.
type DB struct {
	db     *badger.DB
	closed atomic.Bool

	conflicts atomic.Int64
}

// Open opens (or creates) the database.
func Open(cfg Config) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("store path is required unless in_memory is set")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	if cfg.Compression {
		opts.Compression = options.Snappy
	}

	// Badger logs through its own logger; keep it quiet.
	opts.Logger = nil

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Document store opened")

	return &DB{db: bdb}, nil
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*DB, error) {
	return Open(Config{InMemory: true})
}

// Close closes the database. It is safe to call more than once.
func (d *DB) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Document store closed")
	return nil
}

// Ping reports whether the database is usable.
func (d *DB) Ping(ctx context.Context) error {
	if d.closed.Load() {
		return ErrClosed
	}
	return d.view(ctx, func(*badger.Txn) error { return nil })
}

// RunGC reclaims value log space until nothing is left to rewrite.
func (d *DB) RunGC(ratio float64) error {
	if d.closed.Load() {
		return ErrClosed
	}
	for {
		err := d.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// ConflictRetries returns the number of transactions retried after a conflict.
func (d *DB) ConflictRetries() int64 {
	return d.conflicts.Load()
}

// update runs fn in a read-write transaction, retrying on badger.ErrConflict.
// fn may run more than once and must not have side effects outside txn.
func (d *DB) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if d.closed.Load() {
		return ErrClosed
	}
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			return err
		}
		d.conflicts.Add(1)
		time.Sleep(time.Duration(attempt+1) * time.Millisecond)
	}
}

func (d *DB) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}
