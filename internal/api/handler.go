// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/thebox/internal/interaction"
	"github.com/tomtom215/thebox/internal/recommend"
	"github.com/tomtom215/thebox/internal/stories"
	"github.com/tomtom215/thebox/internal/users"
)

// defaultMaxUploadBytes applies when no upload limit is configured.
const defaultMaxUploadBytes = 50 << 20

// multipartOverhead is the room left for form fields around the file part.
const multipartOverhead = 1 << 20

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes a circuit breaker state ("closed", "open",
// "half-open").
type BreakerReporter interface {
	State() string
}

// Dependencies wires a Handler. Cache and EventsBackend only feed the
// health report.
type Dependencies struct {
	Users       *users.Service
	Stories     *stories.Service
	Interaction *interaction.Recorder
	Recommend   *recommend.Builder

	Store Pinger
	Cache BreakerReporter

	EventsBackend  string
	MaxUploadBytes int64
	Version        string
}

// Handler serves every API endpoint.
type Handler struct {
	users       *users.Service
	stories     *stories.Service
	recorder    *interaction.Recorder
	recommender *recommend.Builder

	store         Pinger
	cache         BreakerReporter
	eventsBackend string

	maxUploadBytes int64
	version        string
	startTime      time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Users == nil || deps.Stories == nil || deps.Interaction == nil || deps.Recommend == nil {
		return nil, errors.New("api: users, stories, interaction and recommend services are required")
	}
	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		users:          deps.Users,
		stories:        deps.Stories,
		recorder:       deps.Interaction,
		recommender:    deps.Recommend,
		store:          deps.Store,
		cache:          deps.Cache,
		eventsBackend:  deps.EventsBackend,
		maxUploadBytes: maxUpload,
		version:        version,
		startTime:      time.Now(),
	}, nil
}
