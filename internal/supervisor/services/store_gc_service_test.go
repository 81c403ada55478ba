// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockGC struct {
	mu     sync.Mutex
	calls  int
	ratios []float64
	err    error
}

func (m *mockGC) RunGC(ratio float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.ratios = append(m.ratios, ratio)
	return m.err
}

func (m *mockGC) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ suture.Service = (*StoreGCService)(nil)

func TestStoreGCService_RunsOnInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failures keep the loop alive", errors.New("value log busy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gc := &mockGC{err: tt.err}
			svc := NewStoreGCService(gc, 5*time.Millisecond, 0.7)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			deadline := time.Now().Add(2 * time.Second)
			for gc.count() < 3 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
			if gc.count() < 3 {
				t.Fatalf("RunGC calls = %d, want >= 3", gc.count())
			}
			gc.mu.Lock()
			defer gc.mu.Unlock()
			if gc.ratios[0] != 0.7 {
				t.Errorf("ratio = %v, want 0.7", gc.ratios[0])
			}
		})
	}
}

func TestNewStoreGCService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewStoreGCService(&mockGC{}, 0, 1.5)
	if svc.interval != defaultGCInterval || svc.ratio != defaultGCDiscardRatio {
		t.Errorf("defaults = %v/%v", svc.interval, svc.ratio)
	}
	if svc.String() != "store-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}
