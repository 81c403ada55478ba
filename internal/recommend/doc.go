// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package recommend builds personalized story feeds and signature-based user
// suggestions.
//
// # Feed
//
// A feed draws from three candidate pools, queried concurrently:
//
//   - matched: up to 200 users sharing matching tags with the requester,
//     scored 5 x shared tags + profile score, highest first
//   - popular: the top local users and then the top global users with a
//     profile score of at least 50
//   - explore: low-score (at most 40) local users plus the requester's contacts
//
// Every candidate is reduced to the stories the requester has neither viewed
// nor skipped; candidates with nothing left are dropped. Of the 10 slots, 4
// go to the top matched bundles, 3 to a random popular sample and the rest to
// a random exploratory sample. Short pools are backfilled from the leftovers
// in matched, popular, explore order and the final list is shuffled.
//
// The sampling source is seeded from Config.Seed, so a fixed seed yields a
// reproducible feed. Feeds are cached under cache.RecommendationsKey and
// dropped by the interaction recorder whenever the requester acts.
//
// # Suggestions
//
// RecommendBySignature ranks up to 100 tag-overlapping users the same way
// and returns the top 30 with the shared tags as reason. Without any overlap
// it returns the 10 highest-scoring users with reason FallbackReason.
// Explore runs it for an anonymous interest list.
//
// # Usage
//
//	b, err := recommend.NewBuilder(recommend.DefaultConfig(), recommend.Dependencies{
//		Users:   repos.Users,
//		Stories: repos.Stories,
//		History: repos.WatchHistory,
//		Cache:   cacheStore,
//	}, logger)
//	feed, err := b.Recommend(ctx, userID)
package recommend
