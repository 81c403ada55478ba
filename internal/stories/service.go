// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package stories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/validation"
)

// Paging limits for List.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Repository is the story persistence the service needs.
type Repository interface {
	GetDocument(ctx context.Context, owner string) (*models.StoryDocument, error)
	Append(ctx context.Context, owner models.UserPreview, story models.Story) (*models.StoryDocument, error)
	UpdateStory(ctx context.Context, owner, storyID string, fn func(*models.Story) error) (*models.Story, error)
	PullStory(ctx context.Context, owner, storyID string) (*models.Story, error)
	List(ctx context.Context, skip, limit int) ([]models.StoryDocument, error)
}

// UserReader resolves the owner of a new story.
type UserReader interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Media stores uploaded story content.
type Media interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	Remove(ctx context.Context, contentURL string) error
}

// ViewMarker marks every story of a target as seen by a viewer.
type ViewMarker interface {
	MarkTargetViewed(ctx context.Context, viewer, target string) error
}

// Dependencies wires a Service. Cache is optional; Media is required only
// for media stories and Views only for MarkViewed.
type Dependencies struct {
	Stories    Repository
	Users      UserReader
	Media      Media
	Views      ViewMarker
	Cache      cache.Store
	StoriesTTL time.Duration
}

// Service manages stories.
type Service struct {
	stories Repository
	users   UserReader
	media   Media
	views   ViewMarker
	cache   cache.Store
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService creates a Service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(deps Dependencies, logger zerolog.Logger) (*Service, error) {
	if deps.Stories == nil || deps.Users == nil {
		return nil, errors.New("stories: story and user repositories are required")
	}
	ttl := deps.StoriesTTL
	if ttl <= 0 {
		ttl = cache.StoriesTTL
	}
	return &Service{
		stories: deps.Stories,
		users:   deps.Users,
		media:   deps.Media,
		views:   deps.Views,
		cache:   deps.Cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "stories").Logger(),
		now:     time.Now,
	}, nil
}

// CreateText adds a text story for ownerID.
func (s *Service) CreateText(ctx context.Context, ownerID string, in *TextInput) (*models.Story, error) {
	in.Mentions = cleanMentions(in.Mentions)
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	u, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, u, models.StoryDetails{
		ContentType: models.ContentText,
		Caption:     in.Caption,
		Mentions:    in.Mentions,
	})
}

// CreateMedia stores the upload and adds a media story for ownerID. The
// MIME type decides the content type; audio must be a recorded format.
func (s *Service) CreateMedia(ctx context.Context, ownerID string, in *MediaInput) (*models.Story, error) {
	in.Mentions = cleanMentions(in.Mentions)
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	kind, ext, err := classify(in.MIMEType, in.Filename)
	if err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, errors.New("stories: no media store configured")
	}
	// Resolve the owner first so no file is written for an unknown user.
	u, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Save(ctx, ext, in.Body)
	if err != nil {
		if errors.Is(err, ErrUploadTooLarge) {
			return nil, apperr.Validation("file", "File too large.")
		}
		return nil, fmt.Errorf("save media: %w", err)
	}

	story, err := s.insert(ctx, u, models.StoryDetails{
		ContentURL:  url,
		ContentType: kind,
		Caption:     in.Caption,
		Mentions:    in.Mentions,
	})
	if err != nil {
		if rerr := s.media.Remove(ctx, url); rerr != nil {
			s.logger.Warn().Err(rerr).Str("url", url).Msg("failed to remove orphaned media")
		}
		return nil, err
	}
	return story, nil
}

func (s *Service) owner(ctx context.Context, ownerID string) (*models.User, error) {
	u, err := s.users.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}
	return u, nil
}

func (s *Service) insert(ctx context.Context, u *models.User, details models.StoryDetails) (*models.Story, error) {
	ownerID := u.UserID
	if details.Mentions == nil {
		details.Mentions = []string{}
	}
	story := models.Story{
		StoryID:   uuid.NewString(),
		Details:   details,
		CreatedAt: s.now().UTC(),
		Views:     []models.View{},
		Reactions: []models.Reaction{},
		Reposts:   []models.Repost{},
		Shares:    []models.Share{},
	}
	if _, err := s.stories.Append(ctx, u.Preview(), story); err != nil {
		return nil, fmt.Errorf("append story: %w", err)
	}
	s.invalidate(ctx, ownerID)

	s.logger.Info().
		Str("user_id", ownerID).
		Str("story_id", story.StoryID).
		Str("content_type", string(details.ContentType)).
		Msg("story created")
	return &story, nil
}

// List pages through story documents in owner order.
func (s *Service) List(ctx context.Context, skip, limit int) ([]models.StoryDocument, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	docs, err := s.stories.List(ctx, skip, min(limit, MaxListLimit))
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return docs, nil
}

// GetByUser returns the story document of userID, cached under
// cache.StoriesKey.
func (s *Service) GetByUser(ctx context.Context, userID string) (*models.StoryDocument, error) {
	key := cache.StoriesKey(userID)
	if s.cache != nil {
		var cached models.StoryDocument
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	doc, err := s.stories.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User has no stories")
		}
		return nil, fmt.Errorf("load stories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return doc, nil
}

// Update edits the caption and/or mentions of one of ownerID's stories.
func (s *Service) Update(ctx context.Context, ownerID, storyID string, in *UpdateInput) (*models.Story, error) {
	if in.empty() {
		return nil, apperr.Validation("body", "no fields to update")
	}
	if in.Mentions != nil {
		cleaned := cleanMentions(*in.Mentions)
		in.Mentions = &cleaned
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}

	story, err := s.stories.UpdateStory(ctx, ownerID, storyID, func(st *models.Story) error {
		if in.Caption != nil {
			st.Details.Caption = *in.Caption
		}
		if in.Mentions != nil {
			st.Details.Mentions = *in.Mentions
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("Story not found or unauthorized")
		}
		return nil, fmt.Errorf("update story: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return story, nil
}

// Delete removes one of ownerID's stories and its media file.
func (s *Service) Delete(ctx context.Context, ownerID, storyID string) error {
	story, err := s.stories.PullStory(ctx, ownerID, storyID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Story not found or unauthorized")
		}
		return fmt.Errorf("delete story: %w", err)
	}
	if url := story.Details.ContentURL; url != "" && s.media != nil {
		if err := s.media.Remove(ctx, url); err != nil {
			s.logger.Warn().Err(err).Str("story_id", storyID).Msg("failed to remove media")
		}
	}
	s.invalidate(ctx, ownerID)
	s.logger.Info().Str("user_id", ownerID).Str("story_id", storyID).Msg("story deleted")
	return nil
}

// MarkViewed marks every story of target as seen by viewer.
func (s *Service) MarkViewed(ctx context.Context, viewer, target string) error {
	if s.views == nil {
		return errors.New("stories: no view marker configured")
	}
	return s.views.MarkTargetViewed(ctx, viewer, target)
}

func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StoriesKey(ownerID)); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("cache invalidation failed")
	}
}
