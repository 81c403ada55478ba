// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package cache provides the read-through, invalidate-on-write cache that sits
in front of the document store.

The cache is never a source of truth. Any entry may be missing or stale, and
every caller must be able to rebuild the value from the store. Errors from a
backend, including ErrUnavailable from an open circuit, are logged and treated
as a miss on reads and a no-op on writes.

# Backends

  - MemoryStore: in-process TTL map with a background sweeper. Default for
    development and tests.
  - RedisStore: go-redis v9 client. redis.Nil is a miss.
  - ResilientStore: sony/gobreaker wrapper around either backend.

# Keys

	recommendations:{user_id}                  personalized feed, 1h
	public:{sorted-interests}:{location|any}   anonymous discovery, 1h
	user:{user_id}                             user preview, 30d
	stories:{user_id}                          story document, 24h

Example:

	store := cache.NewResilientStore(redisStore, cache.DefaultBreakerConfig("cache-redis"))

	var feed models.Feed
	if ok, err := store.Get(ctx, cache.RecommendationsKey(userID), &feed); err == nil && ok {
	    return &feed, nil
	}
*/
package cache
