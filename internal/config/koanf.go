// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/thebox/config.yaml",
	"/etc/thebox/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Store: StoreConfig{
			Path:           "/data/thebox",
			InMemory:       false,
			SyncWrites:     false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Cache: CacheConfig{
			Backend:             "memory",
			RedisAddr:           "127.0.0.1:6379",
			RedisDB:             0,
			RedisDialTimeout:    2 * time.Second,
			CleanupInterval:     5 * time.Minute,
			BreakerEnabled:      true,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			UserTTL:             30 * 24 * time.Hour,
			StoriesTTL:          24 * time.Hour,
			PublicTTL:           time.Hour,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			JWTIssuer:         "thebox",
			AccessTokenTTL:    120 * 24 * time.Hour,
			RefreshTokenTTL:   90 * 24 * time.Hour,
			BcryptCost:        10,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			AuthRateLimitReqs: 10,
			CORSOrigins:       []string{"*"},
		},
		Events: EventsConfig{
			Enabled:          true,
			Backend:          "gochannel",
			Topic:            "interactions.recorded",
			NATSURL:          "nats://127.0.0.1:4222",
			QueueGroup:       "thebox",
			SubscribersCount: 2,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
			BufferSize:       256,
		},
		Media: MediaConfig{
			Dir:            "/data/media",
			BaseURL:        "http://localhost:8080",
			MaxUploadBytes: 50 << 20, // 50MB
		},
		Recommend: RecommendConfig{
			ResponseSize:       10,
			MatchedRatio:       0.45,
			PopularRatio:       0.35,
			MatchedLimit:       200,
			PopularLocalLimit:  5,
			PopularGlobalLimit: 10,
			ExploreLocalLimit:  20,
			ContactLimit:       20,
			PopularMinScore:    50,
			ExploreMaxScore:    40,
			SignatureLimit:     100,
			SignatureTop:       30,
			FallbackLimit:      10,
			CacheTTL:           time.Hour,
			Seed:               0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, YAML lists arrive as slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	// Store mappings
	"store_path":             "store.path",
	"store_in_memory":        "store.in_memory",
	"store_sync_writes":      "store.sync_writes",
	"store_gc_interval":      "store.gc_interval",
	"store_gc_discard_ratio": "store.gc_discard_ratio",

	// Cache mappings
	"cache_backend":               "cache.backend",
	"redis_addr":                  "cache.redis_addr",
	"redis_password":              "cache.redis_password",
	"redis_db":                    "cache.redis_db",
	"redis_dial_timeout":          "cache.redis_dial_timeout",
	"cache_cleanup_interval":      "cache.cleanup_interval",
	"cache_breaker_enabled":       "cache.breaker_enabled",
	"cache_breaker_max_requests":  "cache.breaker_max_requests",
	"cache_breaker_interval":      "cache.breaker_interval",
	"cache_breaker_timeout":       "cache.breaker_timeout",
	"cache_breaker_min_requests":  "cache.breaker_min_requests",
	"cache_breaker_failure_ratio": "cache.breaker_failure_ratio",
	"cache_user_ttl":              "cache.user_ttl",
	"cache_stories_ttl":           "cache.stories_ttl",
	"cache_public_ttl":            "cache.public_ttl",

	// Security mappings
	"jwt_secret":               "security.jwt_secret",
	"jwt_issuer":               "security.jwt_issuer",
	"access_token_ttl":         "security.access_token_ttl",
	"refresh_token_ttl":        "security.refresh_token_ttl",
	"bcrypt_cost":              "security.bcrypt_cost",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"auth_rate_limit_requests": "security.auth_rate_limit_reqs",
	"cors_origins":             "security.cors_origins",

	// Events mappings
	"events_enabled":       "events.enabled",
	"events_backend":       "events.backend",
	"events_topic":         "events.topic",
	"nats_url":             "events.nats_url",
	"nats_queue_group":     "events.queue_group",
	"nats_subscribers":     "events.subscribers_count",
	"nats_ack_wait":        "events.ack_wait_timeout",
	"events_close_timeout": "events.close_timeout",
	"events_buffer_size":   "events.buffer_size",

	// Media mappings
	"media_dir":              "media.dir",
	"media_base_url":         "media.base_url",
	"media_max_upload_bytes": "media.max_upload_bytes",

	// Recommendation mappings
	"recommend_response_size":        "recommend.response_size",
	"recommend_matched_ratio":        "recommend.matched_ratio",
	"recommend_popular_ratio":        "recommend.popular_ratio",
	"recommend_matched_limit":        "recommend.matched_limit",
	"recommend_popular_local_limit":  "recommend.popular_local_limit",
	"recommend_popular_global_limit": "recommend.popular_global_limit",
	"recommend_explore_local_limit":  "recommend.explore_local_limit",
	"recommend_contact_limit":        "recommend.contact_limit",
	"recommend_popular_min_score":    "recommend.popular_min_score",
	"recommend_explore_max_score":    "recommend.explore_max_score",
	"recommend_signature_limit":      "recommend.signature_limit",
	"recommend_signature_top":        "recommend.signature_top",
	"recommend_fallback_limit":       "recommend.fallback_limit",
	"recommend_cache_ttl":            "recommend.cache_ttl",
	"recommend_seed":                 "recommend.seed",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - REDIS_ADDR -> cache.redis_addr
//   - NATS_URL -> events.nats_url
//
// Unmapped variables return "" and are skipped, so unrelated environment
// variables cannot pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
