// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockRouter struct {
	runErr  error
	closed  atomic.Int32
	running chan struct{}
}

func (m *mockRouter) Run(ctx context.Context) error {
	close(m.running)
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return nil
}

func (m *mockRouter) Close() error {
	m.closed.Add(1)
	return nil
}

var _ suture.Service = (*EventRouterService)(nil)

func TestEventRouterService_StopsOnCancel(t *testing.T) {
	t.Parallel()

	router := &mockRouter{running: make(chan struct{})}
	svc := NewEventRouterService(func() (EventRouter, error) { return router, nil })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	<-router.running
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	if router.closed.Load() != 1 {
		t.Errorf("Close calls = %d, want 1", router.closed.Load())
	}
}

func TestEventRouterService_Failures(t *testing.T) {
	t.Parallel()

	buildErr := errors.New("nats unreachable")
	svc := NewEventRouterService(func() (EventRouter, error) { return nil, buildErr })
	if err := svc.Serve(context.Background()); !errors.Is(err, buildErr) {
		t.Errorf("build failure: Serve() = %v", err)
	}

	runErr := errors.New("subscribe failed")
	router := &mockRouter{running: make(chan struct{}), runErr: runErr}
	svc = NewEventRouterService(func() (EventRouter, error) { return router, nil })
	if err := svc.Serve(context.Background()); !errors.Is(err, runErr) {
		t.Errorf("run failure: Serve() = %v", err)
	}
}

func TestEventRouterService_RebuildsOnRestart(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	svc := NewEventRouterService(func() (EventRouter, error) {
		n := builds.Add(1)
		r := &mockRouter{running: make(chan struct{})}
		if n < 3 {
			r.runErr = errors.New("crashed")
		}
		return r, nil
	})

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   5 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for builds.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if builds.Load() < 3 {
		t.Errorf("builds = %d, want at least 3", builds.Load())
	}
	if svc.String() != "event-router" {
		t.Errorf("String() = %q", svc.String())
	}
}
