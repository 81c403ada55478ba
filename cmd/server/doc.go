// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package main is the entry point for the TheBox server.

TheBox is the backend for a short-lived stories app: users publish text and
media stories, interact with each other's stories, and receive a feed
assembled from their profile signature, popular content and fresh
exploration picks.

# Application Architecture

Long-lived components run under a Suture v4 supervisor tree:

	RootSupervisor ("thebox")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreGCService (badger value log GC)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Component initialization order:

 1. Configuration: koanf v2 with YAML file and environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: embedded BadgerDB document store
 4. Cache: in-process or Redis, behind a gobreaker circuit breaker
 5. Authentication: JWT access and refresh tokens, bcrypt passwords
 6. Events (optional): Watermill over gochannel or NATS
 7. Services: users, stories, interactions, recommendations
 8. Supervisor tree and HTTP server

# Configuration

Environment variables override config.yaml, which overrides defaults. The
only required setting is JWT_SECRET:

	JWT_SECRET=$(openssl rand -base64 32) ./thebox

With Redis and NATS:

	export JWT_SECRET=...
	export CACHE_BACKEND=redis REDIS_ADDR=redis:6379
	export EVENTS_ENABLED=true EVENTS_BACKEND=nats NATS_URL=nats://nats:4222
	./thebox

See package config for the full variable list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, then the event router, cache and
store are closed in reverse order of creation.
*/
package main
