// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/metrics"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/signature"
	"github.com/tomtom215/thebox/internal/store"
)

// FallbackReason marks suggestions taken from the global top-score list.
const FallbackReason = "Top users in system"

// sharedTagWeight is the score of each tag a candidate shares with the requester.
const sharedTagWeight = 5

// UserFinder is the slice of the user repository the builder reads.
type UserFinder interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Find(ctx context.Context, q store.UserQuery) ([]models.User, error)
}

// StoryReader loads an owner's story document.
type StoryReader interface {
	GetDocument(ctx context.Context, owner string) (*models.StoryDocument, error)
}

// HistoryReader loads what a viewer has seen of a target.
type HistoryReader interface {
	Get(ctx context.Context, viewer, target string) (*models.WatchHistory, error)
}

// Dependencies wires a Builder. Cache is optional.
type Dependencies struct {
	Users   UserFinder
	Stories StoryReader
	History HistoryReader
	Cache   cache.Store
	Engine  *signature.Engine
}

// Builder assembles personalized feeds and signature-based suggestions.
// It is safe for concurrent use.
type Builder struct {
	cfg     *Config
	users   UserFinder
	stories StoryReader
	history HistoryReader
	cache   cache.Store
	engine  *signature.Engine
	logger  zerolog.Logger
	now     func() time.Time

	// rng is only touched while sampling or shuffling.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewBuilder creates a Builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Builder, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if deps.Users == nil || deps.Stories == nil || deps.History == nil {
		return nil, errors.New("recommend: users, stories and history are required")
	}
	engine := deps.Engine
	if engine == nil {
		engine = signature.New(nil)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Builder{
		cfg:     cfg,
		users:   deps.Users,
		stories: deps.Stories,
		history: deps.History,
		cache:   deps.Cache,
		engine:  engine,
		logger:  logger.With().Str("component", "recommend").Logger(),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed sampling
	}, nil
}

// Recommend returns the feed for userID, from cache when possible. When no
// story bundle is eligible the feed carries signature-based suggestions
// instead.
func (b *Builder) Recommend(ctx context.Context, userID string) (*models.Feed, error) {
	start := time.Now()
	defer func() { metrics.RecordRecommendationBuild("feed", time.Since(start)) }()

	key := cache.RecommendationsKey(userID)
	var cached models.Feed
	if b.cacheGet(ctx, key, &cached) {
		metrics.RecordRecommendationResult("feed", "cache")
		return &cached, nil
	}

	me, err := b.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bundles, err := b.build(ctx, me)
	if err != nil {
		return nil, err
	}

	feed := &models.Feed{Stories: bundles, GeneratedAt: b.now().UTC()}
	source := "build"
	if len(bundles) == 0 {
		suggested, fallback, err := b.bySignature(ctx, me.ProfileSignature, me.UserID)
		if err != nil {
			return nil, err
		}
		feed.Suggested = suggested
		source = "suggested"
		if fallback {
			source = "fallback"
		}
	}

	b.cacheSet(ctx, key, feed, b.cfg.FeedTTL)
	metrics.RecordRecommendationResult("feed", source)

	b.logger.Debug().
		Str("user_id", userID).
		Int("bundles", len(feed.Stories)).
		Int("suggested", len(feed.Suggested)).
		Dur("took", time.Since(start)).
		Msg("feed built")

	return feed, nil
}

// BuildRecommendations assembles up to ResponseSize story bundles for userID,
// bypassing the cache.
func (b *Builder) BuildRecommendations(ctx context.Context, userID string) ([]models.StoryBundle, error) {
	me, err := b.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.build(ctx, me)
}

// RecommendBySignature ranks users whose tags overlap those of sig. Users in
// exclude are skipped. With no overlap anywhere it falls back to the global
// top-score list, so the result is empty only when no other user exists.
func (b *Builder) RecommendBySignature(ctx context.Context, sig models.ProfileSignature, exclude ...string) ([]models.Candidate, error) {
	start := time.Now()
	defer func() { metrics.RecordRecommendationBuild("signature", time.Since(start)) }()

	out, fallback, err := b.bySignature(ctx, sig, exclude...)
	if err != nil {
		return nil, err
	}
	source := "build"
	if fallback {
		source = "fallback"
	}
	metrics.RecordRecommendationResult("signature", source)
	return out, nil
}

// SuggestForUser runs RecommendBySignature over userID's own signature.
func (b *Builder) SuggestForUser(ctx context.Context, userID string) ([]models.Candidate, error) {
	me, err := b.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.RecommendBySignature(ctx, me.ProfileSignature, me.UserID)
}

// Explore serves anonymous discovery. The interests act as both declared and
// behavioral tags of a throwaway signature; results are cached per
// interest set and location.
func (b *Builder) Explore(ctx context.Context, interests []string, location string) (*models.Discovery, error) {
	start := time.Now()
	defer func() { metrics.RecordRecommendationBuild("explore", time.Since(start)) }()

	key := cache.PublicKey(interests, location)
	var cached models.Discovery
	if b.cacheGet(ctx, key, &cached) {
		metrics.RecordRecommendationResult("explore", "cache")
		return &cached, nil
	}

	tags := signature.NormalizeTags(interests)
	sig := models.NewProfileSignature()
	sig.Interests = tags
	sig.BehavioralTags = append([]string{}, tags...)
	sig.Location = location
	sig.Category = b.engine.InferCategories(sig)

	suggested, fallback, err := b.bySignature(ctx, sig)
	if err != nil {
		return nil, err
	}

	out := &models.Discovery{Signature: sig, Suggested: suggested, GeneratedAt: b.now().UTC()}
	b.cacheSet(ctx, key, out, b.cfg.PublicTTL)

	source := "build"
	if fallback {
		source = "fallback"
	}
	metrics.RecordRecommendationResult("explore", source)
	return out, nil
}

func (b *Builder) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := b.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User profile not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (b *Builder) bySignature(ctx context.Context, sig models.ProfileSignature, exclude ...string) ([]models.Candidate, bool, error) {
	tags := signature.MatchingTags(sig)

	if len(tags) > 0 {
		found, err := b.users.Find(ctx, store.UserQuery{
			ExcludeIDs: exclude,
			AnyTags:    tags,
			Limit:      b.cfg.SignatureLimit,
		})
		if err != nil {
			return nil, false, fmt.Errorf("find users by tags: %w", err)
		}

		out := make([]models.Candidate, 0, len(found))
		for i := range found {
			u := &found[i]
			shared := signature.SharedTags(tags, signature.MatchingTags(u.ProfileSignature))
			if len(shared) == 0 {
				continue
			}
			out = append(out, models.Candidate{
				UserID:          u.UserID,
				Username:        u.Username,
				ProfileImageURL: u.ProfileImageURL,
				Score:           sharedTagWeight*len(shared) + u.ProfileSignature.ProfileScore,
				Reason:          shared,
			})
		}
		if len(out) > 0 {
			sort.SliceStable(out, func(i, j int) bool {
				if out[i].Score != out[j].Score {
					return out[i].Score > out[j].Score
				}
				return out[i].UserID < out[j].UserID
			})
			if len(out) > b.cfg.SignatureTop {
				out = out[:b.cfg.SignatureTop]
			}
			return out, false, nil
		}
	}

	top, err := b.users.Find(ctx, store.UserQuery{
		ExcludeIDs:  exclude,
		SortByScore: true,
		Limit:       b.cfg.FallbackLimit,
	})
	if err != nil {
		return nil, false, fmt.Errorf("find top users: %w", err)
	}
	out := make([]models.Candidate, len(top))
	for i := range top {
		out[i] = models.Candidate{
			UserID:          top[i].UserID,
			Username:        top[i].Username,
			ProfileImageURL: top[i].ProfileImageURL,
			Score:           top[i].ProfileSignature.ProfileScore,
			Reason:          []string{FallbackReason},
		}
	}
	return out, true, nil
}

func (b *Builder) cacheGet(ctx context.Context, key string, dest any) bool {
	if b.cache == nil {
		return false
	}
	ok, err := b.cache.Get(ctx, key, dest)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, rebuilding")
		return false
	}
	return ok
}

func (b *Builder) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, key, value, ttl); err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
