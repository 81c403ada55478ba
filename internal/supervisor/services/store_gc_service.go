// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package services

import (
	"context"
	"time"

	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/metrics"
)

// Defaults for StoreGCService.
const (
	defaultGCInterval     = 10 * time.Minute
	defaultGCDiscardRatio = 0.5
)

// GarbageCollector reclaims space in the document store.
type GarbageCollector interface {
	RunGC(ratio float64) error
}

// StoreGCService runs value log garbage collection on a fixed interval.
// A failed run is logged and retried on the next tick.
type StoreGCService struct {
	db       GarbageCollector
	interval time.Duration
	ratio    float64
	name     string
}

// NewStoreGCService creates the GC service. Non-positive settings fall back
// to a 10 minute interval and a 0.5 discard ratio.
func NewStoreGCService(db GarbageCollector, interval time.Duration, ratio float64) *StoreGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = defaultGCDiscardRatio
	}
	return &StoreGCService{db: db, interval: interval, ratio: ratio, name: "store-gc"}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StoreGCService) collect() {
	start := time.Now()
	err := s.db.RunGC(s.ratio)
	metrics.RecordStoreOperation("badger", "gc", time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).Msg("store GC failed")
	}
}

// String names the service in supervisor logs.
func (s *StoreGCService) String() string {
	return s.name
}
