// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package config provides centralized configuration management for TheBox.

# Configuration Sources

Configuration is loaded with koanf in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, then config.yaml, config.yml,
    /etc/thebox/config.yaml, /etc/thebox/config.yml
 3. Environment variables, through an explicit mapping table

Unmapped environment variables are ignored. Comma-separated values become
slices for list fields such as CORS_ORIGINS.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Store:
  - STORE_PATH (default /data/thebox), STORE_IN_MEMORY, STORE_SYNC_WRITES
  - STORE_GC_INTERVAL, STORE_GC_DISCARD_RATIO

Cache:
  - CACHE_BACKEND: memory or redis
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_DIAL_TIMEOUT
  - CACHE_BREAKER_ENABLED, CACHE_BREAKER_TIMEOUT, CACHE_BREAKER_FAILURE_RATIO, ...
  - CACHE_USER_TTL (30d), CACHE_STORIES_TTL (24h), CACHE_PUBLIC_TTL (1h)

Security:
  - JWT_SECRET: required, at least 32 characters
  - ACCESS_TOKEN_TTL (120d), REFRESH_TOKEN_TTL (90d), BCRYPT_COST (10)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, AUTH_RATE_LIMIT_REQUESTS, DISABLE_RATE_LIMIT
  - CORS_ORIGINS

Events:
  - EVENTS_ENABLED, EVENTS_BACKEND (gochannel or nats), EVENTS_TOPIC
  - NATS_URL, NATS_QUEUE_GROUP, NATS_SUBSCRIBERS

Media:
  - MEDIA_DIR, MEDIA_BASE_URL, MEDIA_MAX_UPLOAD_BYTES

Recommendations:
  - RECOMMEND_RESPONSE_SIZE (10), RECOMMEND_MATCHED_RATIO (0.45), RECOMMEND_POPULAR_RATIO (0.35)
  - RECOMMEND_*_LIMIT pool bounds, RECOMMEND_POPULAR_MIN_SCORE (50), RECOMMEND_EXPLORE_MAX_SCORE (40)
  - RECOMMEND_CACHE_TTL (1h), RECOMMEND_SEED (0 = time-based)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("config: %v", err)
	}
	logging.Init(cfg.Logging.ToLoggingConfig())
*/
package config
