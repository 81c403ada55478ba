// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/apperr"
	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/cache"
	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/metrics"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/signature"
	"github.com/tomtom215/thebox/internal/store"
	"github.com/tomtom215/thebox/internal/validation"
)

// Paging limits for List.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Repository is the user persistence the service needs.
type Repository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]models.User, error)
}

// Cleaner removes everything else a user owns when the account goes away,
// and keeps embedded previews in step with profile changes.
type Cleaner interface {
	DeleteByOwner(ctx context.Context, owner string) ([]models.Story, error)
	SetOwnerPreview(ctx context.Context, preview models.UserPreview) error
}

// HistoryCleaner drops watch history and viewer logs of a user.
type HistoryCleaner interface {
	DeleteUser(ctx context.Context, id string) (int, error)
}

// ViewerLogCleaner drops the viewer log of a target.
type ViewerLogCleaner interface {
	Delete(ctx context.Context, target string) error
}

// MediaRemover deletes uploaded media by URL.
type MediaRemover interface {
	Remove(ctx context.Context, contentURL string) error
}

// Dependencies wires a Service. Cache, History, Viewers and Media are optional.
type Dependencies struct {
	Users    Repository
	Stories  Cleaner
	History  HistoryCleaner
	Viewers  ViewerLogCleaner
	Media    MediaRemover
	Cache    cache.Store
	Tokens   *auth.TokenManager
	Hasher   *auth.Hasher
	Engine   *signature.Engine
	Security *logging.SecurityLogger
	UserTTL  time.Duration
}

// Service manages accounts and sessions.
type Service struct {
	users    Repository
	stories  Cleaner
	history  HistoryCleaner
	viewers  ViewerLogCleaner
	media    MediaRemover
	cache    cache.Store
	tokens   *auth.TokenManager
	hasher   *auth.Hasher
	engine   *signature.Engine
	security *logging.SecurityLogger
	userTTL  time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a Service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(deps Dependencies, logger zerolog.Logger) (*Service, error) {
	if deps.Users == nil || deps.Stories == nil || deps.Tokens == nil {
		return nil, errors.New("users: repository, stories and token manager are required")
	}
	s := &Service{
		users:    deps.Users,
		stories:  deps.Stories,
		history:  deps.History,
		viewers:  deps.Viewers,
		media:    deps.Media,
		cache:    deps.Cache,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		engine:   deps.Engine,
		security: deps.Security,
		userTTL:  deps.UserTTL,
		logger:   logger.With().Str("component", "users").Logger(),
		now:      time.Now,
	}
	if s.hasher == nil {
		s.hasher = auth.NewHasher(0)
	}
	if s.engine == nil {
		s.engine = signature.New(nil)
	}
	if s.security == nil {
		s.security = logging.NewSecurityLoggerWithLogger(logger)
	}
	if s.userTTL <= 0 {
		s.userTTL = cache.UserTTL
	}
	return s, nil
}

// Register creates an account with a freshly generated profile signature.
func (s *Service) Register(ctx context.Context, in *RegisterInput) (*models.UserProfile, error) {
	in.normalize()
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	platform := in.SignupPlatform
	if platform == "" {
		platform = models.PlatformUnknown
	}
	interests := signature.NormalizeTags(in.Interests)

	u := &models.User{
		UserID:           uuid.NewString(),
		Username:         in.Username,
		FullName:         in.FullName,
		Email:            in.Email,
		PhoneNumber:      in.PhoneNumber,
		Age:              in.Age,
		PasswordHash:     hash,
		Bio:              in.Bio,
		Interests:        interests,
		Location:         in.Location,
		Contacts:         nonNil(in.Contacts),
		ProfileImageURL:  in.ProfileImageURL,
		SignupPlatform:   platform,
		JoinedAt:         s.now().UTC(),
		ProfileSignature: s.engine.Generate(in.Bio, interests, in.Location),
	}

	if err := s.users.Insert(ctx, u); err != nil {
		metrics.RecordAuthAttempt("register", false)
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			err = apperr.Conflict("Email already registered")
		case errors.Is(err, store.ErrUsernameTaken):
			err = apperr.Conflict("Username already taken")
		default:
			err = fmt.Errorf("insert user: %w", err)
		}
		s.security.Log(ctx, logging.AuthEvent{Event: "register", Email: in.Email, Reason: apperr.Message(err, "store error")})
		return nil, err
	}

	metrics.RecordAuthAttempt("register", true)
	s.security.Log(ctx, logging.AuthEvent{Event: "register", UserID: u.UserID, Email: u.Email, Success: true})

	profile := u.Profile()
	return &profile, nil
}

// Session is the result of a login or token refresh.
type Session struct {
	models.TokenPair
	User models.UserPreview `json:"user"`
}

// Login checks credentials and issues a new token pair. The refresh token is
// stored so that only the latest one can be redeemed.
func (s *Service) Login(ctx context.Context, in *LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}

	fail := func(userID string, err error) (*Session, error) {
		metrics.RecordAuthAttempt("login", false)
		s.security.Log(ctx, logging.AuthEvent{Event: "login", UserID: userID, Email: in.Email, Reason: apperr.Message(err, "error")})
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fail("", apperr.NotFound("User not found"))
		}
		return fail("", fmt.Errorf("load user: %w", err))
	}
	if err := s.hasher.Verify(u.PasswordHash, in.Password); err != nil {
		return fail(u.UserID, err)
	}

	pair, err := s.tokens.IssuePair(u.UserID)
	if err != nil {
		return fail(u.UserID, err)
	}
	if _, err := s.users.Update(ctx, u.UserID, func(u *models.User) error {
		u.RefreshToken = pair.RefreshToken
		return nil
	}); err != nil {
		return fail(u.UserID, fmt.Errorf("store refresh token: %w", err))
	}

	metrics.RecordAuthAttempt("login", true)
	s.security.Log(ctx, logging.AuthEvent{Event: "login", UserID: u.UserID, Email: u.Email, Success: true})
	return &Session{TokenPair: pair, User: u.Preview()}, nil
}

// Refresh redeems the stored refresh token for a new pair. A token that
// verifies but is not the stored one is Forbidden.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	fail := func(userID string, err error) (*Session, error) {
		metrics.RecordAuthAttempt("refresh", false)
		s.security.Log(ctx, logging.AuthEvent{Event: "refresh", UserID: userID, Reason: apperr.Message(err, "error")})
		return nil, err
	}

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return fail("", apperr.Validation("refresh_token", "refresh_token is required"))
	}
	claims, err := s.tokens.Validate(refreshToken, auth.TokenRefresh)
	if err != nil {
		return fail("", err)
	}
	userID := claims.UserID()

	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return fail(userID, err)
	}

	u, err := s.users.Update(ctx, userID, func(u *models.User) error {
		if u.RefreshToken == "" || u.RefreshToken != refreshToken {
			return apperr.Forbidden("Invalid refresh token")
		}
		u.RefreshToken = pair.RefreshToken
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = apperr.Forbidden("Invalid refresh token")
		}
		return fail(userID, err)
	}

	metrics.RecordAuthAttempt("refresh", true)
	s.security.Log(ctx, logging.AuthEvent{Event: "refresh", UserID: userID, Success: true})
	return &Session{TokenPair: pair, User: u.Preview()}, nil
}

// Logout forgets the stored refresh token.
func (s *Service) Logout(ctx context.Context, userID string) error {
	_, err := s.users.Update(ctx, userID, func(u *models.User) error {
		u.RefreshToken = ""
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.security.Log(ctx, logging.AuthEvent{Event: "logout", UserID: userID, Success: true})
	return nil
}

// Get returns the public preview of a user, cached under cache.UserKey.
func (s *Service) Get(ctx context.Context, id string) (*models.UserPreview, error) {
	key := cache.UserKey(id)
	if s.cache != nil {
		var cached models.UserPreview
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	preview := u.Preview()
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, preview, s.userTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return &preview, nil
}

// List pages through users. The limit defaults to DefaultListLimit and is
// capped at MaxListLimit.
func (s *Service) List(ctx context.Context, skip, limit int) ([]models.UserPreview, error) {
	skip, limit = ClampPage(skip, limit)
	list, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.UserPreview, len(list))
	for i := range list {
		out[i] = list[i].Preview()
	}
	return out, nil
}

// Update applies a partial profile update. Changes to bio, interests or
// location regenerate the declared part of the signature; behavioral state
// is kept.
func (s *Service) Update(ctx context.Context, userID string, in *UpdateInput) (*models.UserProfile, error) {
	in.normalize()
	if in.empty() {
		return nil, apperr.Validation("body", "no fields to update")
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var previewChanged bool
	u, err := s.users.Update(ctx, userID, func(u *models.User) error {
		before := u.Preview()
		resign := in.apply(u)
		if resign {
			u.ProfileSignature = s.engine.Refresh(u.ProfileSignature, u.Bio, u.Interests, u.Location)
		}
		now := s.now().UTC()
		u.UpdatedAt = &now
		previewChanged = u.Preview() != before
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return nil, apperr.NotFound("User not found or no change")
		case errors.Is(err, store.ErrUsernameTaken):
			return nil, apperr.Conflict("Username already taken")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	keys := []string{cache.UserKey(userID)}
	if previewChanged {
		if err := s.stories.SetOwnerPreview(ctx, u.Preview()); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to refresh story owner preview")
		}
		keys = append(keys, cache.StoriesKey(userID))
	}
	s.invalidate(ctx, keys...)

	profile := u.Profile()
	return &profile, nil
}

// Delete removes the account, its stories and uploaded media, and its seen
// state.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	removed, err := s.stories.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete stories: %w", err)
	}
	if s.media != nil {
		for i := range removed {
			if url := removed[i].Details.ContentURL; url != "" {
				if err := s.media.Remove(ctx, url); err != nil {
					s.logger.Warn().Err(err).Str("story_id", removed[i].StoryID).Msg("failed to remove media")
				}
			}
		}
	}
	if s.history != nil {
		if _, err := s.history.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete watch history: %w", err)
		}
	}
	if s.viewers != nil {
		if err := s.viewers.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete viewer log: %w", err)
		}
	}

	s.invalidate(ctx, cache.UserKey(userID), cache.StoriesKey(userID), cache.RecommendationsKey(userID))
	s.logger.Info().Str("user_id", userID).Int("stories", len(removed)).Msg("account deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// ClampPage normalizes skip and limit for list endpoints.
func ClampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return skip, min(limit, MaxListLimit)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
