// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the cache backend cannot serve a request,
// either because the backend failed or because the circuit is open.
// Callers treat it as a miss on reads and a no-op on writes.
var ErrUnavailable = errors.New("cache unavailable")

// Store is a best-effort key/value cache with per-entry TTL.
// Values are JSON-encoded on Set and decoded into dest on Get.
type Store interface {
	// Get decodes the value stored at key into dest.
	// It reports false with a nil error on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value at key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
