// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package recommend

import (
	"github.com/tomtom215/thebox/internal/models"
)

// compose fills ResponseSize slots: the top matched bundles, a random sample
// of popular ones and a random sample of exploratory ones. Shortfalls are
// backfilled from the leftovers of matched, then popular, then exploratory.
// A user is never selected twice. The result is shuffled so pool origin
// cannot be read from position.
func (b *Builder) compose(matched, popular, explore []models.StoryBundle) []models.StoryBundle {
	size := b.cfg.ResponseSize
	mQuota, pQuota := b.cfg.Quotas()

	picked := make(map[string]struct{}, size)
	out := make([]models.StoryBundle, 0, size)
	take := func(bundle models.StoryBundle) bool {
		if len(out) >= size {
			return false
		}
		if _, dup := picked[bundle.User.UserID]; dup {
			return false
		}
		picked[bundle.User.UserID] = struct{}{}
		out = append(out, bundle)
		return true
	}

	mCount := min(mQuota, len(matched))
	for _, bundle := range matched[:mCount] {
		take(bundle)
	}
	matchedRest := matched[mCount:]

	popular = b.unpicked(popular, picked)
	pCount := min(pQuota, len(popular))
	pSample, popularRest := b.sample(popular, pCount)
	for _, bundle := range pSample {
		take(bundle)
	}

	explore = b.unpicked(explore, picked)
	tCount := min(size-mCount-pCount, len(explore))
	tSample, exploreRest := b.sample(explore, tCount)
	for _, bundle := range tSample {
		take(bundle)
	}

	for _, rest := range [][]models.StoryBundle{matchedRest, popularRest, exploreRest} {
		for _, bundle := range rest {
			if len(out) >= size {
				break
			}
			take(bundle)
		}
	}

	b.rngMu.Lock()
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	b.rngMu.Unlock()

	return out
}

func (b *Builder) unpicked(bundles []models.StoryBundle, picked map[string]struct{}) []models.StoryBundle {
	out := make([]models.StoryBundle, 0, len(bundles))
	for _, bundle := range bundles {
		if _, ok := picked[bundle.User.UserID]; !ok {
			out = append(out, bundle)
		}
	}
	return out
}

// sample draws n items uniformly without replacement. rest keeps the
// unpicked items in their original order.
func (b *Builder) sample(items []models.StoryBundle, n int) (picked, rest []models.StoryBundle) {
	if n <= 0 {
		return nil, items
	}
	if n > len(items) {
		n = len(items)
	}

	b.rngMu.Lock()
	perm := b.rng.Perm(len(items))
	b.rngMu.Unlock()

	chosen := make([]bool, len(items))
	picked = make([]models.StoryBundle, 0, n)
	for _, idx := range perm[:n] {
		chosen[idx] = true
		picked = append(picked, items[idx])
	}
	rest = make([]models.StoryBundle, 0, len(items)-n)
	for i, item := range items {
		if !chosen[i] {
			rest = append(rest, item)
		}
	}
	return picked, rest
}
