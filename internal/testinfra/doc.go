// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package testinfra starts Redis and NATS containers for integration tests.
//
// Everything here is behind the integration build tag and needs a Docker
// daemon. Tests call SkipIfNoDocker first:
//
//	//go:build integration
//
//	func TestRedisStore_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    testinfra.CleanupContainer(t, redis)
//	    // use redis.Addr
//	}
//
// Run them with:
//
//	go test -tags integration ./internal/cache/... ./internal/events/...
package testinfra
