// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateStore,
		c.validateCache,
		c.validateSecurity,
		c.validateEvents,
		c.validateMedia,
		c.validateRecommend,
		c.validateLogging,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Store.GCDiscardRatio <= 0 || c.Store.GCDiscardRatio >= 1 {
		return fmt.Errorf("STORE_GC_DISCARD_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

// validateCache validates the cache backend and breaker settings
func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		if err := validateHostPort(c.Cache.RedisAddr); err != nil {
			return fmt.Errorf("invalid REDIS_ADDR: %w", err)
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}

	if c.Cache.BreakerEnabled {
		if c.Cache.BreakerFailureRatio <= 0 || c.Cache.BreakerFailureRatio > 1 {
			return fmt.Errorf("CACHE_BREAKER_FAILURE_RATIO must be in (0, 1]")
		}
		if c.Cache.BreakerTimeout <= 0 {
			return fmt.Errorf("CACHE_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}

	if c.Security.AccessTokenTTL <= 0 || c.Security.RefreshTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL and REFRESH_TOKEN_TTL must be positive")
	}

	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production, where bearer tokens
// held by browsers would be usable from any site.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.AuthRateLimitReqs < minRateLimitRequests || c.Security.AuthRateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("AUTH_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateEvents validates the event bus configuration (only if enabled)
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}

	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}

	switch c.Events.Backend {
	case "gochannel":
		return nil
	case "nats":
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
		if c.Events.SubscribersCount < 1 || c.Events.SubscribersCount > 64 {
			return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 64")
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of: gochannel, nats")
	}
}

func (c *Config) validateMedia() error {
	if c.Media.Dir == "" {
		return fmt.Errorf("MEDIA_DIR is required")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	if err := validateHTTPURL(c.Media.BaseURL, "MEDIA_BASE_URL"); err != nil {
		return fmt.Errorf("MEDIA_BASE_URL is invalid: %w", err)
	}
	return nil
}

// validateRecommend validates the composition ratios and pool bounds
func (c *Config) validateRecommend() error {
	r := c.Recommend

	if r.ResponseSize < 1 || r.ResponseSize > 100 {
		return fmt.Errorf("RECOMMEND_RESPONSE_SIZE must be between 1 and 100")
	}
	if r.MatchedRatio < 0 || r.PopularRatio < 0 || r.MatchedRatio+r.PopularRatio > 1 {
		return fmt.Errorf("RECOMMEND_MATCHED_RATIO and RECOMMEND_POPULAR_RATIO must be non-negative and sum to at most 1")
	}

	limits := map[string]int{
		"RECOMMEND_MATCHED_LIMIT":        r.MatchedLimit,
		"RECOMMEND_POPULAR_LOCAL_LIMIT":  r.PopularLocalLimit,
		"RECOMMEND_POPULAR_GLOBAL_LIMIT": r.PopularGlobalLimit,
		"RECOMMEND_EXPLORE_LOCAL_LIMIT":  r.ExploreLocalLimit,
		"RECOMMEND_CONTACT_LIMIT":        r.ContactLimit,
		"RECOMMEND_SIGNATURE_LIMIT":      r.SignatureLimit,
		"RECOMMEND_SIGNATURE_TOP":        r.SignatureTop,
		"RECOMMEND_FALLBACK_LIMIT":       r.FallbackLimit,
	}
	for name, v := range limits {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if r.CacheTTL < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must not be negative")
	}
	return nil
}

// valid logging values
var (
	validLogLevels = map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	validLogFormats = map[string]bool{
		"json":    true,
		"console": true,
	}
)

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
