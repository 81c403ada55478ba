// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/config"
)

// Config tunes the builder.
type Config struct {
	// ResponseSize is the fixed number of bundles in a feed.
	ResponseSize int

	// MatchedRatio and PopularRatio are the shares of ResponseSize taken from
	// the matched and popular pools. The exploratory pool gets the rest.
	MatchedRatio float64
	PopularRatio float64

	// Pool query limits.
	MatchedLimit       int
	PopularLocalLimit  int
	PopularGlobalLimit int
	ExploreLocalLimit  int
	ContactLimit       int

	// PopularMinScore is the inclusive lower score bound of the popular pool.
	PopularMinScore int

	// ExploreMaxScore is the inclusive upper score bound of local exploratory picks.
	ExploreMaxScore int

	// Signature-based suggestions.
	SignatureLimit int
	SignatureTop   int
	FallbackLimit  int

	// FeedTTL and PublicTTL bound the cached feed and discovery results.
	FeedTTL   time.Duration
	PublicTTL time.Duration

	// Seed fixes the sampling source. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
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
		FeedTTL:            cache.RecommendationsTTL,
		PublicTTL:          cache.PublicTTL,
	}
}

// ConfigFrom maps the loaded application settings onto a builder Config.
func ConfigFrom(rc *config.RecommendConfig, cc *config.CacheConfig) *Config {
	cfg := DefaultConfig()
	cfg.ResponseSize = rc.ResponseSize
	cfg.MatchedRatio = rc.MatchedRatio
	cfg.PopularRatio = rc.PopularRatio
	cfg.MatchedLimit = rc.MatchedLimit
	cfg.PopularLocalLimit = rc.PopularLocalLimit
	cfg.PopularGlobalLimit = rc.PopularGlobalLimit
	cfg.ExploreLocalLimit = rc.ExploreLocalLimit
	cfg.ContactLimit = rc.ContactLimit
	cfg.PopularMinScore = rc.PopularMinScore
	cfg.ExploreMaxScore = rc.ExploreMaxScore
	cfg.SignatureLimit = rc.SignatureLimit
	cfg.SignatureTop = rc.SignatureTop
	cfg.FallbackLimit = rc.FallbackLimit
	cfg.Seed = rc.Seed
	if rc.CacheTTL > 0 {
		cfg.FeedTTL = rc.CacheTTL
	}
	if cc != nil && cc.PublicTTL > 0 {
		cfg.PublicTTL = cc.PublicTTL
	}
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ResponseSize < 1 {
		return fmt.Errorf("response_size must be positive, got %d", c.ResponseSize)
	}
	if c.MatchedRatio < 0 || c.PopularRatio < 0 || c.MatchedRatio+c.PopularRatio > 1 {
		return fmt.Errorf("matched_ratio and popular_ratio must be non-negative and sum to at most 1, got %.2f + %.2f",
			c.MatchedRatio, c.PopularRatio)
	}
	for name, v := range map[string]int{
		"matched_limit":        c.MatchedLimit,
		"popular_global_limit": c.PopularGlobalLimit,
		"signature_limit":      c.SignatureLimit,
		"signature_top":        c.SignatureTop,
		"fallback_limit":       c.FallbackLimit,
	} {
		if v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.PopularLocalLimit < 0 || c.ExploreLocalLimit < 0 || c.ContactLimit < 0 {
		return fmt.Errorf("pool limits must be non-negative")
	}
	if c.FeedTTL <= 0 || c.PublicTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

// Quotas returns the target matched and popular counts. The exploratory
// quota is whatever the other two leave of ResponseSize.
func (c *Config) Quotas() (matched, popular int) {
	return int(float64(c.ResponseSize) * c.MatchedRatio), int(float64(c.ResponseSize) * c.PopularRatio)
}
