// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/metrics"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/signature"
	"github.com/tomtom215/thebox/internal/store"
)

// Pool indexes for the fan-out result slots.
const (
	poolMatched = iota
	poolPopular
	poolExplore
	poolCount
)

var poolNames = [poolCount]string{"matched", "popular", "explore"}

// build queries the three pools concurrently and composes the feed.
func (b *Builder) build(ctx context.Context, me *models.User) ([]models.StoryBundle, error) {
	fetch := [poolCount]func(context.Context, *models.User) ([]models.StoryBundle, error){
		b.matchedPool,
		b.popularPool,
		b.explorePool,
	}

	var (
		results [poolCount][]models.StoryBundle
		errs    [poolCount]error
		wg      sync.WaitGroup
	)
	for i := range fetch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fetch[i](ctx, me)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s pool: %w", poolNames[i], err)
		}
		metrics.RecordPoolSize(poolNames[i], len(results[i]))
	}

	return b.compose(results[poolMatched], results[poolPopular], results[poolExplore]), nil
}

type scoredUser struct {
	user  *models.User
	score int
}

// matchedPool ranks users sharing matching tags with me by
// 5 x shared + profile score, highest first.
func (b *Builder) matchedPool(ctx context.Context, me *models.User) ([]models.StoryBundle, error) {
	myTags := signature.MatchingTags(me.ProfileSignature)
	if len(myTags) == 0 {
		return nil, nil
	}

	found, err := b.users.Find(ctx, store.UserQuery{
		ExcludeIDs: []string{me.UserID},
		AnyTags:    myTags,
		Limit:      b.cfg.MatchedLimit,
	})
	if err != nil {
		return nil, err
	}

	scored := make([]scoredUser, 0, len(found))
	for i := range found {
		shared := signature.SharedTags(myTags, signature.MatchingTags(found[i].ProfileSignature))
		if len(shared) == 0 {
			continue
		}
		scored = append(scored, scoredUser{
			user:  &found[i],
			score: sharedTagWeight*len(shared) + found[i].ProfileSignature.ProfileScore,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].user.UserID < scored[j].user.UserID
	})

	users := make([]*models.User, len(scored))
	for i := range scored {
		users[i] = scored[i].user
	}
	return b.bundles(ctx, me.UserID, users)
}

// popularPool takes the top local users and then the top global users at or
// above PopularMinScore.
func (b *Builder) popularPool(ctx context.Context, me *models.User) ([]models.StoryBundle, error) {
	var raw []models.User
	if me.Location != "" && b.cfg.PopularLocalLimit > 0 {
		local, err := b.users.Find(ctx, store.UserQuery{
			ExcludeIDs:  []string{me.UserID},
			Location:    me.Location,
			MinScore:    b.cfg.PopularMinScore,
			SortByScore: true,
			Limit:       b.cfg.PopularLocalLimit,
		})
		if err != nil {
			return nil, err
		}
		raw = append(raw, local...)
	}

	global, err := b.users.Find(ctx, store.UserQuery{
		ExcludeIDs:  []string{me.UserID},
		MinScore:    b.cfg.PopularMinScore,
		SortByScore: true,
		Limit:       b.cfg.PopularGlobalLimit,
	})
	if err != nil {
		return nil, err
	}
	raw = append(raw, global...)

	return b.bundles(ctx, me.UserID, dedupe(raw))
}

// explorePool mixes low-score local users with the requester's contacts.
func (b *Builder) explorePool(ctx context.Context, me *models.User) ([]models.StoryBundle, error) {
	var raw []models.User
	if me.Location != "" && b.cfg.ExploreLocalLimit > 0 {
		local, err := b.users.Find(ctx, store.UserQuery{
			ExcludeIDs: []string{me.UserID},
			Location:   me.Location,
			MaxScore:   b.cfg.ExploreMaxScore,
			Limit:      b.cfg.ExploreLocalLimit,
		})
		if err != nil {
			return nil, err
		}
		raw = append(raw, local...)
	}

	if len(me.Contacts) > 0 && b.cfg.ContactLimit > 0 {
		contacts, err := b.users.Find(ctx, store.UserQuery{
			ExcludeIDs: []string{me.UserID},
			IDs:        me.Contacts,
			Limit:      b.cfg.ContactLimit,
		})
		if err != nil {
			return nil, err
		}
		raw = append(raw, contacts...)
	}

	return b.bundles(ctx, me.UserID, dedupe(raw))
}

func dedupe(users []models.User) []*models.User {
	seen := make(map[string]struct{}, len(users))
	out := make([]*models.User, 0, len(users))
	for i := range users {
		if _, dup := seen[users[i].UserID]; dup {
			continue
		}
		seen[users[i].UserID] = struct{}{}
		out = append(out, &users[i])
	}
	return out
}

// bundles pairs each candidate with the stories viewer has neither viewed
// nor skipped. Candidates with nothing unseen are dropped.
func (b *Builder) bundles(ctx context.Context, viewer string, users []*models.User) ([]models.StoryBundle, error) {
	out := make([]models.StoryBundle, 0, len(users))
	for _, u := range users {
		bundle, err := b.bundle(ctx, viewer, u)
		if err != nil {
			return nil, err
		}
		if bundle != nil {
			out = append(out, *bundle)
		}
	}
	return out, nil
}

func (b *Builder) bundle(ctx context.Context, viewer string, u *models.User) (*models.StoryBundle, error) {
	doc, err := b.stories.GetDocument(ctx, u.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load stories of %s: %w", u.UserID, err)
	}
	if len(doc.Stories) == 0 {
		return nil, nil
	}

	history, err := b.history.Get(ctx, viewer, u.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watch history: %w", err)
	}

	unseen := make([]models.Story, 0, len(doc.Stories))
	for _, s := range doc.Stories {
		if !history.Seen(s.StoryID) {
			unseen = append(unseen, s)
		}
	}
	if len(unseen) == 0 {
		return nil, nil
	}
	return &models.StoryBundle{User: u.Preview(), Stories: unseen}, nil
}
