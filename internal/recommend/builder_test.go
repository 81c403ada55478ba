// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/store"
)

type fixture struct {
	repos   *store.Repositories
	cache   *cache.MemoryStore
	builder *Builder
}

func newFixture(t *testing.T, cfg *Config) *fixture {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mem := cache.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	if cfg == nil {
		cfg = DefaultConfig()
		cfg.Seed = 7
	}

	repos := store.NewRepositories(db)
	b, err := NewBuilder(cfg, Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Cache:   mem,
	}, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return &fixture{repos: repos, cache: mem, builder: b}
}

type userSpec struct {
	id        string
	score     int
	location  string
	interests []string
	contacts  []string
	stories   int
}

func (f *fixture) add(t *testing.T, spec userSpec) {
	t.Helper()
	ctx := context.Background()

	sig := models.NewProfileSignature()
	if spec.score != 0 {
		sig.ProfileScore = spec.score
	}
	sig.Interests = append(sig.Interests, spec.interests...)
	sig.Location = spec.location

	u := &models.User{
		UserID:           spec.id,
		Username:         "user_" + spec.id,
		Email:            spec.id + "@example.com",
		Location:         spec.location,
		Contacts:         spec.contacts,
		ProfileSignature: sig,
	}
	if err := f.repos.Users.Insert(ctx, u); err != nil {
		t.Fatalf("Insert(%s) error = %v", spec.id, err)
	}
	for i := range spec.stories {
		story := models.Story{
			StoryID: fmt.Sprintf("%s-s%d", spec.id, i),
			Details: models.StoryDetails{ContentType: models.ContentText, Caption: "hi"},
		}
		if _, err := f.repos.Stories.Append(ctx, u.Preview(), story); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
}

func bundleOwners(bundles []models.StoryBundle) []string {
	ids := make([]string, len(bundles))
	for i := range bundles {
		ids[i] = bundles[i].User.UserID
	}
	slices.Sort(ids)
	return ids
}

func TestBuilder_FiltersSeenStories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "me", interests: []string{"gaming"}, stories: 1})
	f.add(t, userSpec{id: "partly", interests: []string{"gaming"}, stories: 2})
	f.add(t, userSpec{id: "seen", interests: []string{"gaming"}, stories: 1})
	f.add(t, userSpec{id: "empty", interests: []string{"gaming"}})

	if _, err := f.repos.WatchHistory.AddViewed(ctx, "me", "partly", time.Now(), "partly-s0"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.repos.WatchHistory.AddSkipped(ctx, "me", "seen", time.Now(), "seen-s0"); err != nil {
		t.Fatal(err)
	}

	bundles, err := f.builder.BuildRecommendations(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if got := bundleOwners(bundles); !slices.Equal(got, []string{"partly"}) {
		t.Fatalf("owners = %v, want [partly]", got)
	}
	if s := bundles[0].Stories; len(s) != 1 || s[0].StoryID != "partly-s1" {
		t.Errorf("unseen stories = %+v, want [partly-s1]", s)
	}
}

func TestBuilder_RespectsResponseSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "me", location: "lagos", interests: []string{"music"}, contacts: []string{"c0", "c1"}})
	for i := range 8 {
		f.add(t, userSpec{id: fmt.Sprintf("m%d", i), interests: []string{"music"}, score: 30, stories: 1})
	}
	for i := range 8 {
		f.add(t, userSpec{id: fmt.Sprintf("p%d", i), score: 120, stories: 1})
	}
	for i := range 8 {
		f.add(t, userSpec{id: fmt.Sprintf("l%d", i), location: "lagos", score: 30, stories: 1})
	}
	f.add(t, userSpec{id: "c0", stories: 1})
	f.add(t, userSpec{id: "c1", stories: 1})

	bundles, err := f.builder.BuildRecommendations(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if len(bundles) != 10 {
		t.Fatalf("len = %d, want 10", len(bundles))
	}
	owners := bundleOwners(bundles)
	if slices.Contains(owners, "me") {
		t.Error("feed contains the requester")
	}
	if len(slices.Compact(slices.Clone(owners))) != len(owners) {
		t.Errorf("duplicate owners in feed: %v", owners)
	}

	matched := 0
	for _, id := range owners {
		if id[0] == 'm' {
			matched++
		}
	}
	if matched != 4 {
		t.Errorf("matched picks = %d, want 4 (owners %v)", matched, owners)
	}
}

func TestBuilder_FewerCandidatesThanSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "me", interests: []string{"travel"}})
	f.add(t, userSpec{id: "a", interests: []string{"travel"}, stories: 1})
	f.add(t, userSpec{id: "b", score: 90, stories: 1})
	f.add(t, userSpec{id: "c", score: 45})

	bundles, err := f.builder.BuildRecommendations(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if got := bundleOwners(bundles); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("owners = %v, want [a b]", got)
	}
}

func TestBuilder_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	run := func() []string {
		cfg := DefaultConfig()
		cfg.Seed = 99
		f := newFixture(t, cfg)
		f.add(t, userSpec{id: "me"})
		for i := range 15 {
			f.add(t, userSpec{id: fmt.Sprintf("p%02d", i), score: 60 + i, stories: 1})
		}
		bundles, err := f.builder.BuildRecommendations(context.Background(), "me")
		if err != nil {
			t.Fatal(err)
		}
		ids := make([]string, len(bundles))
		for i := range bundles {
			ids[i] = bundles[i].User.UserID
		}
		return ids
	}

	first, second := run(), run()
	if !slices.Equal(first, second) {
		t.Errorf("same seed gave %v and %v", first, second)
	}
}

func TestBuilder_RecommendFallsBackToSuggestions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "me"})
	f.add(t, userSpec{id: "other", score: 30})

	feed, err := f.builder.Recommend(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Stories) != 0 {
		t.Errorf("Stories = %+v, want none", feed.Stories)
	}
	if len(feed.Suggested) != 1 || feed.Suggested[0].UserID != "other" {
		t.Fatalf("Suggested = %+v", feed.Suggested)
	}
	if !slices.Equal(feed.Suggested[0].Reason, []string{FallbackReason}) {
		t.Errorf("Reason = %v", feed.Suggested[0].Reason)
	}
}

func TestBuilder_RecommendCaches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "me", interests: []string{"art"}})
	f.add(t, userSpec{id: "a", interests: []string{"art"}, stories: 1})

	first, err := f.builder.Recommend(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}

	var cached models.Feed
	found, err := f.cache.Get(ctx, cache.RecommendationsKey("me"), &cached)
	if err != nil || !found {
		t.Fatalf("feed not cached: %v %v", found, err)
	}

	// New content is invisible until the key is dropped.
	f.add(t, userSpec{id: "b", interests: []string{"art"}, stories: 1})
	second, err := f.builder.Recommend(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Stories) != len(first.Stories) {
		t.Errorf("cached feed changed: %d -> %d bundles", len(first.Stories), len(second.Stories))
	}

	if err := f.cache.Delete(ctx, cache.RecommendationsKey("me")); err != nil {
		t.Fatal(err)
	}
	third, err := f.builder.Recommend(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}
	if got := bundleOwners(third.Stories); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("rebuilt owners = %v, want [a b]", got)
	}
}

func TestBuilder_RecommendUnknownUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	if _, err := f.builder.Recommend(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Recommend(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestBuilder_RecommendBySignature(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "two", interests: []string{"gaming", "music"}, score: 40})
	f.add(t, userSpec{id: "one", interests: []string{"gaming"}, score: 60})
	f.add(t, userSpec{id: "none", interests: []string{"cooking"}, score: 200})

	sig := models.NewProfileSignature()
	sig.Interests = []string{"gaming", "music"}

	got, err := f.builder.RecommendBySignature(ctx, sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("candidates = %+v, want 2", got)
	}
	// one: 5*1+60 = 65, two: 5*2+40 = 50
	if got[0].UserID != "one" || got[0].Score != 65 || got[1].UserID != "two" || got[1].Score != 50 {
		t.Errorf("ranking = %+v", got)
	}
	if !slices.Equal(got[1].Reason, []string{"gaming", "music"}) {
		t.Errorf("Reason = %v", got[1].Reason)
	}

	excluded, err := f.builder.RecommendBySignature(ctx, sig, "one")
	if err != nil {
		t.Fatal(err)
	}
	if len(excluded) != 1 || excluded[0].UserID != "two" {
		t.Errorf("with exclusion = %+v", excluded)
	}
}

func TestBuilder_RecommendBySignatureTop(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SignatureTop = 3
	f := newFixture(t, cfg)
	for i := range 6 {
		f.add(t, userSpec{id: fmt.Sprintf("u%d", i), interests: []string{"travel"}, score: 50 + i})
	}

	sig := models.NewProfileSignature()
	sig.Interests = []string{"travel"}
	got, err := f.builder.RecommendBySignature(context.Background(), sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	ids := []string{got[0].UserID, got[1].UserID, got[2].UserID}
	if !slices.Equal(ids, []string{"u5", "u4", "u3"}) {
		t.Errorf("top = %v, want [u5 u4 u3]", ids)
	}
}

func TestBuilder_Explore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	f.add(t, userSpec{id: "a", interests: []string{"football"}})
	f.add(t, userSpec{id: "b", score: 150})

	got, err := f.builder.Explore(ctx, []string{"Football", " "}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Signature.Interests, []string{"football"}) ||
		!slices.Equal(got.Signature.BehavioralTags, []string{"football"}) {
		t.Errorf("signature = %+v", got.Signature)
	}
	if len(got.Suggested) != 1 || got.Suggested[0].UserID != "a" {
		t.Errorf("Suggested = %+v", got.Suggested)
	}

	var cached models.Discovery
	found, err := f.cache.Get(ctx, cache.PublicKey([]string{"Football", " "}, ""), &cached)
	if err != nil || !found {
		t.Errorf("discovery not cached: %v %v", found, err)
	}

	none, err := f.builder.Explore(ctx, nil, "nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if len(none.Suggested) != 2 || none.Suggested[0].UserID != "b" || none.Suggested[0].Reason[0] != FallbackReason {
		t.Errorf("fallback = %+v", none.Suggested)
	}
}

func TestBuilder_CacheFailureIsAMiss(t *testing.T) {
	t.Parallel()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repos := store.NewRepositories(db)

	b, err := NewBuilder(nil, Dependencies{
		Users:   repos.Users,
		Stories: repos.Stories,
		History: repos.WatchHistory,
		Cache:   brokenCache{},
	}, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{repos: repos, builder: b}
	f.add(t, userSpec{id: "me"})
	f.add(t, userSpec{id: "x", score: 80, stories: 1})

	feed, err := b.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil on cache outage", err)
	}
	if len(feed.Stories) != 1 {
		t.Errorf("Stories = %+v", feed.Stories)
	}
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, cache.ErrUnavailable
}
func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return cache.ErrUnavailable
}
func (brokenCache) Delete(context.Context, ...string) error { return cache.ErrUnavailable }

func TestNewBuilder_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder(nil, Dependencies{}, logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("NewBuilder() without stores succeeded")
	}

	cfg := DefaultConfig()
	cfg.ResponseSize = 0
	if _, err := NewBuilder(cfg, Dependencies{}, logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("NewBuilder() with bad config succeeded")
	}
}
