// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/thebox/internal/logging"
)

// Config holds all application configuration.
//
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
	Media     MediaConfig     `koanf:"media"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds BadgerDB document store settings.
//
// Environment Variables:
//   - STORE_PATH: data directory (default: /data/thebox)
//   - STORE_IN_MEMORY: keep everything in memory, nothing persisted (default: false)
//   - STORE_SYNC_WRITES: fsync every write (default: false)
//   - STORE_GC_INTERVAL: value log GC interval, 0 disables (default: 10m)
type StoreConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	SyncWrites     bool          `koanf:"sync_writes"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// CacheConfig holds cache backend and circuit breaker settings.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string `koanf:"backend"`

	RedisAddr        string        `koanf:"redis_addr"`
	RedisPassword    string        `koanf:"redis_password"`
	RedisDB          int           `koanf:"redis_db"`
	RedisDialTimeout time.Duration `koanf:"redis_dial_timeout"`

	// CleanupInterval is the sweep period of the memory backend.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	BreakerEnabled      bool          `koanf:"breaker_enabled"`
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`

	UserTTL    time.Duration `koanf:"user_ttl"`
	StoriesTTL time.Duration `koanf:"stories_ttl"`
	PublicTTL  time.Duration `koanf:"public_ttl"`
}

// SecurityConfig holds authentication, rate limiting and CORS settings.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	JWTIssuer       string        `koanf:"jwt_issuer"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	BcryptCost      int           `koanf:"bcrypt_cost"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// AuthRateLimitReqs applies to login, register and refresh per window.
	AuthRateLimitReqs int `koanf:"auth_rate_limit_reqs"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// EventsConfig holds the interaction event bus settings.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Backend is "gochannel" (in-process) or "nats".
	Backend string `koanf:"backend"`

	Topic            string        `koanf:"topic"`
	NATSURL          string        `koanf:"nats_url"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
	BufferSize       int64         `koanf:"buffer_size"`
}

// MediaConfig holds uploaded media storage settings.
type MediaConfig struct {
	Dir            string `koanf:"dir"`
	BaseURL        string `koanf:"base_url"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
}

// RecommendConfig tunes the recommendation builder.
type RecommendConfig struct {
	ResponseSize int     `koanf:"response_size"`
	MatchedRatio float64 `koanf:"matched_ratio"`
	PopularRatio float64 `koanf:"popular_ratio"`

	MatchedLimit       int `koanf:"matched_limit"`
	PopularLocalLimit  int `koanf:"popular_local_limit"`
	PopularGlobalLimit int `koanf:"popular_global_limit"`
	ExploreLocalLimit  int `koanf:"explore_local_limit"`
	ContactLimit       int `koanf:"contact_limit"`

	PopularMinScore int `koanf:"popular_min_score"`
	ExploreMaxScore int `koanf:"explore_max_score"`

	SignatureLimit int `koanf:"signature_limit"`
	SignatureTop   int `koanf:"signature_top"`
	FallbackLimit  int `koanf:"fallback_limit"`

	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Seed fixes the sampling source. 0 seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ToLoggingConfig converts to the logging package's config.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
