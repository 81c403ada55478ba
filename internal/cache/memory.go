// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thebox/internal/metrics"
)

const (
	// BackendMemory labels metrics from the in-process store.
	BackendMemory = "memory"

	defaultCleanupInterval = 5 * time.Minute
)

// entry is a cached value with its expiry.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// MemoryStore is a thread-safe in-process Store.
//
// Expired entries are dropped lazily on Get and periodically by a background
// cleanup goroutine, which runs until Close is called.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	statsMu sync.Mutex
	stats   Stats

	now       func() time.Time
	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates a MemoryStore that sweeps expired entries every
// cleanupInterval. A non-positive interval uses 5 minutes.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	m := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	m.stats.LastCleanup = m.now()

	go m.cleanupLoop(cleanupInterval)

	return m
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		m.recordMiss()
		return false, nil
	}

	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := m.entries[key]; still && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
			m.recordEviction(1)
		}
		m.mu.Unlock()
		m.recordMiss()
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		metrics.RecordCacheError(BackendMemory, "decode")
		return false, fmt.Errorf("decode cached %q: %w", key, err)
	}

	m.recordHit()
	return true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		metrics.RecordCacheError(BackendMemory, "encode")
		return fmt.Errorf("encode %q: %w", key, err)
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(ttl)}
	size := len(m.entries)
	m.mu.Unlock()

	m.setSize(size)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	removed := 0
	for _, key := range keys {
		if _, ok := m.entries[key]; ok {
			delete(m.entries, key)
			removed++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	m.recordEviction(removed)
	m.setSize(size)
	return nil
}

// Clear removes every entry.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	removed := len(m.entries)
	m.entries = make(map[string]entry)
	m.mu.Unlock()

	m.recordEviction(removed)
	m.setSize(0)
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns a snapshot of the counters.
func (m *MemoryStore) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	now := m.now()

	m.mu.Lock()
	evicted := 0
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	m.recordEviction(evicted)
	m.setSize(size)

	m.statsMu.Lock()
	m.stats.LastCleanup = now
	m.statsMu.Unlock()
}

func (m *MemoryStore) recordHit() {
	m.statsMu.Lock()
	m.stats.Hits++
	m.statsMu.Unlock()
	metrics.RecordCacheLookup(BackendMemory, true)
}

func (m *MemoryStore) recordMiss() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.statsMu.Unlock()
	metrics.RecordCacheLookup(BackendMemory, false)
}

func (m *MemoryStore) recordEviction(n int) {
	if n == 0 {
		return
	}
	m.statsMu.Lock()
	m.stats.Evictions += int64(n)
	m.statsMu.Unlock()
	metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(n))
}

func (m *MemoryStore) setSize(n int) {
	m.statsMu.Lock()
	m.stats.TotalKeys = int64(n)
	m.statsMu.Unlock()
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(n))
}
