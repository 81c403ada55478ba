// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/metrics"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/signature"
)

// UserStore is the slice of the user repository the recorder needs.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)
}

// StoryStore resolves stories and appends to their embedded lists.
type StoryStore interface {
	GetDocument(ctx context.Context, owner string) (*models.StoryDocument, error)
	FindStory(ctx context.Context, storyID string) (*models.StoryDocument, int, error)
	UpdateStory(ctx context.Context, owner, storyID string, fn func(*models.Story) error) (*models.Story, error)
}

// HistoryStore records what a viewer has seen of a target.
type HistoryStore interface {
	AddViewed(ctx context.Context, viewer, target string, at time.Time, storyIDs ...string) (bool, error)
	AddSkipped(ctx context.Context, viewer, target string, at time.Time, storyIDs ...string) (bool, error)
}

// ViewerLogStore records who has viewed a target.
type ViewerLogStore interface {
	AddViewer(ctx context.Context, target, viewer string, at time.Time) (bool, error)
}

// Invalidator drops cache keys.
type Invalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// Publisher emits recorded interactions to the event bus.
type Publisher interface {
	PublishInteraction(ctx context.Context, event *models.InteractionEvent) error
}

// Dependencies wires a Recorder. Cache and Events are optional.
type Dependencies struct {
	Users   UserStore
	Stories StoryStore
	History HistoryStore
	Viewers ViewerLogStore
	Cache   Invalidator
	Events  Publisher
}

// Request describes one interaction.
//
// Story-scoped actions (view, react, share, repost) require StoryID and
// derive the target from the story owner. Skip requires TargetID; StoryID is
// optional and, when set, must belong to the target.
type Request struct {
	ActorID  string
	TargetID string
	StoryID  string
	Action   models.Action
}

// Recorder folds interactions into signatures, scores and seen state.
// It is safe for concurrent use.
type Recorder struct {
	users   UserStore
	stories StoryStore
	history HistoryStore
	viewers ViewerLogStore
	cache   Invalidator
	events  Publisher
	logger  zerolog.Logger
	now     func() time.Time
}

// NewRecorder returns a Recorder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(deps Dependencies, logger zerolog.Logger) *Recorder {
	return &Recorder{
		users:   deps.Users,
		stories: deps.Stories,
		history: deps.History,
		viewers: deps.Viewers,
		cache:   deps.Cache,
		events:  deps.Events,
		logger:  logger.With().Str("component", "interaction").Logger(),
		now:     time.Now,
	}
}

// resolved holds everything looked up before the first write.
type resolved struct {
	actor  *models.User
	target *models.User
	story  *models.Story
	self   bool
}

// Record applies req. The store is written in this order:
//
//  1. seen state (watch history, viewer log, story views)
//  2. the story's reaction, repost or share list
//  3. the actor's behavioral tags, toward the target's categories
//  4. the target's profile score
//
// followed by invalidation of the actor's cached feed and publication of the
// event. All lookups happen before any write, so a missing actor, target or
// story leaves the store untouched. Self-directed actions write steps 1 and 2
// only.
func (r *Recorder) Record(ctx context.Context, req Request) (*models.InteractionEvent, error) {
	weight, err := validate(&req)
	if err != nil {
		metrics.RecordInteractionError(string(req.Action), "validation")
		return nil, err
	}

	res, err := r.resolve(ctx, &req)
	if err != nil {
		metrics.RecordInteractionError(string(req.Action), reason(err))
		return nil, err
	}

	now := r.now().UTC()

	if err := r.writeSeen(ctx, &req, now); err != nil {
		return nil, r.fail(req.Action, "seen", err)
	}
	if err := r.writeEmbedded(ctx, &req, res, now); err != nil {
		return nil, r.fail(req.Action, "embed", err)
	}
	if !res.self {
		if err := r.learn(ctx, &req, res); err != nil {
			return nil, r.fail(req.Action, "signature", err)
		}
		if err := r.adjustScore(ctx, &req); err != nil {
			return nil, r.fail(req.Action, "score", err)
		}
	}

	r.invalidate(ctx, req.ActorID)

	event := &models.InteractionEvent{
		EventID:    uuid.NewString(),
		Action:     req.Action,
		ActorID:    req.ActorID,
		TargetID:   req.TargetID,
		StoryID:    req.StoryID,
		Weight:     weight,
		SelfAction: res.self,
		OccurredAt: now,
	}
	r.publish(ctx, event)

	metrics.RecordInteraction(string(req.Action))
	r.logger.Debug().
		Str("action", string(req.Action)).
		Str("actor_id", req.ActorID).
		Str("target_id", req.TargetID).
		Bool("self", res.self).
		Msg("interaction recorded")

	return event, nil
}

// MarkTargetViewed marks every current story of target as viewed by viewer.
// It touches seen state only; signatures and scores are unchanged.
func (r *Recorder) MarkTargetViewed(ctx context.Context, viewer, target string) error {
	viewer = strings.TrimSpace(viewer)
	target = strings.TrimSpace(target)
	if viewer == "" {
		return apperr.Validation("actor_id", "actor id is required")
	}
	if target == "" {
		return apperr.Validation("target_id", "target id is required")
	}

	if _, err := r.getUser(ctx, viewer, "User not found"); err != nil {
		return err
	}
	if _, err := r.getUser(ctx, target, "Target user not found"); err != nil {
		return err
	}

	doc, err := r.stories.GetDocument(ctx, target)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("User has no stories")
		}
		return fmt.Errorf("load stories: %w", err)
	}

	now := r.now().UTC()
	if _, err := r.history.AddViewed(ctx, viewer, target, now, doc.StoryIDs()...); err != nil {
		return fmt.Errorf("update watch history: %w", err)
	}
	if _, err := r.viewers.AddViewer(ctx, target, viewer, now); err != nil {
		return fmt.Errorf("update viewer log: %w", err)
	}

	r.invalidate(ctx, viewer)
	return nil
}

func validate(req *Request) (int, error) {
	req.ActorID = strings.TrimSpace(req.ActorID)
	req.TargetID = strings.TrimSpace(req.TargetID)
	req.StoryID = strings.TrimSpace(req.StoryID)

	weight, ok := req.Action.Weight()
	if !ok {
		return 0, apperr.Validation("action", "unknown action %q", req.Action)
	}
	if req.ActorID == "" {
		return 0, apperr.Validation("actor_id", "actor id is required")
	}
	if req.Action.StoryScoped() {
		if req.StoryID == "" {
			return 0, apperr.Validation("story_id", "story id is required")
		}
	} else if req.TargetID == "" {
		return 0, apperr.Validation("target_id", "target id is required")
	}
	return weight, nil
}

// resolve loads the actor, the target and the story, filling req.TargetID for
// story-scoped actions.
func (r *Recorder) resolve(ctx context.Context, req *Request) (*resolved, error) {
	actor, err := r.getUser(ctx, req.ActorID, "User not found")
	if err != nil {
		return nil, err
	}

	res := &resolved{actor: actor}

	if req.StoryID != "" {
		doc, idx, err := r.stories.FindStory(ctx, req.StoryID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.NotFound("Story not found")
			}
			return nil, fmt.Errorf("find story: %w", err)
		}
		owner := doc.User.UserID
		if req.Action.StoryScoped() {
			req.TargetID = owner
		} else if owner != req.TargetID {
			return nil, apperr.NotFound("Story not found")
		}
		res.story = &doc.Stories[idx]
	}

	target, err := r.getUser(ctx, req.TargetID, "Target user not found")
	if err != nil {
		return nil, err
	}
	res.target = target
	res.self = req.ActorID == req.TargetID
	return res, nil
}

func (r *Recorder) getUser(ctx context.Context, id, notFound string) (*models.User, error) {
	u, err := r.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("%s", notFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (r *Recorder) writeSeen(ctx context.Context, req *Request, now time.Time) error {
	switch req.Action {
	case models.ActionView:
		if _, err := r.history.AddViewed(ctx, req.ActorID, req.TargetID, now, req.StoryID); err != nil {
			return fmt.Errorf("update watch history: %w", err)
		}
		if _, err := r.viewers.AddViewer(ctx, req.TargetID, req.ActorID, now); err != nil {
			return fmt.Errorf("update viewer log: %w", err)
		}
		_, err := r.stories.UpdateStory(ctx, req.TargetID, req.StoryID, func(s *models.Story) error {
			if !s.HasViewer(req.ActorID) {
				s.Views = append(s.Views, models.View{UserID: req.ActorID, ViewedAt: now})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("append story view: %w", err)
		}
	case models.ActionSkip:
		var ids []string
		if req.StoryID != "" {
			ids = []string{req.StoryID}
		}
		if _, err := r.history.AddSkipped(ctx, req.ActorID, req.TargetID, now, ids...); err != nil {
			return fmt.Errorf("update watch history: %w", err)
		}
	}
	return nil
}

func (r *Recorder) writeEmbedded(ctx context.Context, req *Request, res *resolved, now time.Time) error {
	var apply func(*models.Story) error
	switch req.Action {
	case models.ActionReact:
		apply = func(s *models.Story) error {
			s.Reactions = append(s.Reactions, models.Reaction{
				UserID:    req.ActorID,
				Story:     s.Snapshot(req.TargetID, now),
				ReactedAt: now,
			})
			return nil
		}
	case models.ActionRepost:
		apply = func(s *models.Story) error {
			s.Reposts = append(s.Reposts, models.Repost{
				UserID:     req.ActorID,
				Story:      s.Snapshot(req.TargetID, now),
				RepostedAt: now,
			})
			return nil
		}
	case models.ActionShare:
		apply = func(s *models.Story) error {
			s.Shares = append(s.Shares, models.Share{
				UserID:   req.ActorID,
				Platform: models.SharePlatformApp,
				SharedAt: now,
			})
			return nil
		}
	default:
		return nil
	}
	if res.story == nil {
		return nil
	}
	if _, err := r.stories.UpdateStory(ctx, req.TargetID, req.StoryID, apply); err != nil {
		return fmt.Errorf("append %s: %w", req.Action, err)
	}
	return nil
}

// learn moves the actor's signature toward the target's categories.
func (r *Recorder) learn(ctx context.Context, req *Request, res *resolved) error {
	categories := res.target.ProfileSignature.Category
	if len(categories) == 0 {
		return nil
	}

	var promoted, demoted int
	_, err := r.users.Update(ctx, req.ActorID, func(u *models.User) error {
		promoted, demoted = 0, 0
		sig := &u.ProfileSignature
		for _, c := range categories {
			before := sig.HasBehavioralTag(c)
			if err := signature.UpdateBehavioralTags(sig, c, req.Action); err != nil {
				return err
			}
			switch after := sig.HasBehavioralTag(c); {
			case after && !before:
				promoted++
			case before && !after:
				demoted++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update actor signature: %w", err)
	}

	for range promoted {
		metrics.RecordBehavioralChange(true)
	}
	for range demoted {
		metrics.RecordBehavioralChange(false)
	}
	return nil
}

func (r *Recorder) adjustScore(ctx context.Context, req *Request) error {
	_, err := r.users.Update(ctx, req.TargetID, func(u *models.User) error {
		_, err := signature.AdjustProfileScore(&u.ProfileSignature, req.Action)
		return err
	})
	if err != nil {
		return fmt.Errorf("adjust target score: %w", err)
	}
	return nil
}

// invalidate drops the actor's cached feed. Failures are logged only.
func (r *Recorder) invalidate(ctx context.Context, actorID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cache.RecommendationsKey(actorID)); err != nil {
		r.logger.Warn().Err(err).Str("actor_id", actorID).Msg("failed to invalidate recommendations")
	}
}

func (r *Recorder) publish(ctx context.Context, event *models.InteractionEvent) {
	if r.events == nil {
		return
	}
	if err := r.events.PublishInteraction(ctx, event); err != nil {
		r.logger.Warn().Err(err).
			Str("event_id", event.EventID).
			Str("action", string(event.Action)).
			Msg("failed to publish interaction")
	}
}

func (r *Recorder) fail(action models.Action, step string, err error) error {
	metrics.RecordInteractionError(string(action), reason(err))
	r.logger.Error().Err(err).Str("action", string(action)).Str("step", step).Msg("interaction failed")
	return err
}

func reason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrValidation):
		return "validation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "store"
	}
}
