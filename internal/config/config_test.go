// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "k3v9Qz7Lw2Xn8Rt5Yp1Hs6Jd4Fg0Bm3Nc"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.UserTTL != 30*24*time.Hour {
		t.Errorf("Cache.UserTTL = %v, want 720h", cfg.Cache.UserTTL)
	}
	if cfg.Security.AccessTokenTTL != 120*24*time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 120 days", cfg.Security.AccessTokenTTL)
	}
	if cfg.Security.RefreshTokenTTL != 90*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 90 days", cfg.Security.RefreshTokenTTL)
	}
	if cfg.Recommend.ResponseSize != 10 || cfg.Recommend.MatchedRatio != 0.45 || cfg.Recommend.PopularRatio != 0.35 {
		t.Errorf("Recommend composition = %d/%v/%v", cfg.Recommend.ResponseSize, cfg.Recommend.MatchedRatio, cfg.Recommend.PopularRatio)
	}
	if cfg.Recommend.CacheTTL != time.Hour {
		t.Errorf("Recommend.CacheTTL = %v, want 1h", cfg.Recommend.CacheTTL)
	}
	if cfg.Events.Topic != "interactions.recorded" {
		t.Errorf("Events.Topic = %q", cfg.Events.Topic)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32"},
		{"placeholder secret", func(c *Config) { c.Security.JWTSecret = "CHANGEME-please-1234567890123456789" }, "placeholder"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"store path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"in memory without path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = true }, ""},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }, "REDIS_ADDR"},
		{"redis addr without port", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "redis" }, "REDIS_ADDR"},
		{"redis addr bad port", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "redis:0" }, "REDIS_ADDR"},
		{"redis addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "redis:6379" }, ""},
		{"breaker ratio", func(c *Config) { c.Cache.BreakerFailureRatio = 1.5 }, "FAILURE_RATIO"},
		{"bcrypt cost", func(c *Config) { c.Security.BcryptCost = 2 }, "BCRYPT_COST"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"production with origins", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://app.example.org"}
		}, ""},
		{"rate limit bounds", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitReqs = 0; c.Security.RateLimitDisabled = true }, ""},
		{"events backend", func(c *Config) { c.Events.Backend = "kafka" }, "EVENTS_BACKEND"},
		{"nats url", func(c *Config) { c.Events.Backend = "nats"; c.Events.NATSURL = "http://x" }, "NATS_URL"},
		{"events disabled ignores backend", func(c *Config) { c.Events.Enabled = false; c.Events.Backend = "kafka" }, ""},
		{"media base url", func(c *Config) { c.Media.BaseURL = "ftp://cdn" }, "MEDIA_BASE_URL"},
		{"ratios over one", func(c *Config) { c.Recommend.MatchedRatio = 0.8 }, "RATIO"},
		{"response size", func(c *Config) { c.Recommend.ResponseSize = 0 }, "RESPONSE_SIZE"},
		{"negative limit", func(c *Config) { c.Recommend.ContactLimit = -1 }, "RECOMMEND_CONTACT_LIMIT"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		prod bool
		dev  bool
	}{
		{"", false, true},
		{"development", false, true},
		{"DEV", false, true},
		{"staging", false, false},
		{"production", true, false},
		{"Prod", true, false},
	}

	for _, tt := range tests {
		cfg := &Config{Server: ServerConfig{Environment: tt.env}}
		if got := cfg.IsProduction(); got != tt.prod {
			t.Errorf("IsProduction(%q) = %v, want %v", tt.env, got, tt.prod)
		}
		if got := cfg.IsDevelopment(); got != tt.dev {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.env, got, tt.dev)
		}
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestToLoggingConfig(t *testing.T) {
	t.Parallel()

	lc := LoggingConfig{Level: "debug", Format: "console", Caller: true}.ToLoggingConfig()
	if lc.Level != "debug" || lc.Format != "console" || !lc.Caller || !lc.Timestamp {
		t.Errorf("ToLoggingConfig() = %+v", lc)
	}
}
