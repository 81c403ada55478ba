// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/thebox/internal/logging"
	"github.com/tomtom215/thebox/internal/metrics"
)

// BreakerConfig tunes the circuit breaker in front of a cache backend.
type BreakerConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration

	// Timeout is how long the circuit stays open before going half-open.
	Timeout time.Duration

	// MinRequests is the sample size required before the breaker may trip.
	MinRequests uint32

	// FailureRatio trips the breaker once failures/requests reaches it.
	FailureRatio float64
}

// DefaultBreakerConfig returns settings suited to a remote cache: fail fast
// after a short burst of errors and probe again after 30 seconds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// ResilientStore wraps a Store with a circuit breaker. Every backend error
// and every rejected call surfaces as ErrUnavailable.
type ResilientStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewResilientStore wraps next with a breaker configured by cfg.
func NewResilientStore(next Store, cfg BreakerConfig) *ResilientStore {
	if cfg.Name == "" {
		cfg.Name = "cache"
	}
	name := cfg.Name
	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio

			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &ResilientStore{next: next, cb: cb, name: name}
}

type getResult struct {
	found bool
}

// Get implements Store.
func (r *ResilientStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	res, err := r.execute(func() (interface{}, error) {
		found, err := r.next.Get(ctx, key, dest)
		return getResult{found: found}, err
	})
	if err != nil {
		return false, err
	}
	return res.(getResult).found, nil
}

// Set implements Store.
func (r *ResilientStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.next.Set(ctx, key, value, ttl)
	})
	return err
}

// Delete implements Store.
func (r *ResilientStore) Delete(ctx context.Context, keys ...string) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.next.Delete(ctx, keys...)
	})
	return err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (r *ResilientStore) State() string {
	return stateToString(r.cb.State())
}

// Close closes the wrapped store if it holds resources.
func (r *ResilientStore) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *ResilientStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
			counts := r.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).Set(0)

	return result, nil
}

// stateToFloat converts a breaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
