// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is the lifecycle subset of *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a ready-to-run router with its handlers registered.
type RouterFactory func() (EventRouter, error)

// EventRouterService runs the event router as a supervised service. A
// Watermill router cannot be run twice, so every Serve builds a fresh one.
type EventRouterService struct {
	build RouterFactory
	name  string
}

// NewEventRouterService wraps build.
func NewEventRouterService(build RouterFactory) *EventRouterService {
	return &EventRouterService{build: build, name: "event-router"}
}

// Serve implements suture.Service. A router that stops before ctx is
// canceled is reported as a failure so the supervisor restarts it.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.build()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	runErr := router.Run(ctx)
	closeErr := router.Close()

	if ctx.Err() != nil {
		if closeErr != nil {
			return fmt.Errorf("event router close failed: %w", closeErr)
		}
		return ctx.Err()
	}
	if runErr == nil {
		runErr = errors.New("event router stopped unexpectedly")
	}
	return fmt.Errorf("event router failed: %w", runErr)
}

// String names the service in supervisor logs.
func (s *EventRouterService) String() string {
	return s.name
}
