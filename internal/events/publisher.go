// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/thebox/internal/metrics"
	"github.com/tomtom215/thebox/internal/models"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher sends interaction events to one topic through a circuit breaker,
// so a dead broker fails fast instead of stalling every interaction.
type Publisher struct {
	publisher message.Publisher
	topic     string
	cb        *gobreaker.CircuitBreaker[struct{}]
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub for topic.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, topic string, logger zerolog.Logger) *Publisher {
	log := logger.With().Str("component", "events").Str("topic", topic).Logger()
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "events-" + topic,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("publisher circuit breaker state changed")
		},
	})
	return &Publisher{publisher: pub, topic: topic, cb: cb, logger: log}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string { return p.topic }

// PublishInteraction encodes and publishes e.
func (p *Publisher) PublishInteraction(ctx context.Context, e *models.InteractionEvent) error {
	msg, err := NewMessage(e)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return p.Publish(ctx, msg)
}

// Publish sends a prepared message.
func (p *Publisher) Publish(ctx context.Context, msg *message.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.publisher.Publish(p.topic, msg)
	})
	metrics.RecordEventPublish(p.topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.UUID, err)
	}
	return nil
}

// State returns the breaker state.
func (p *Publisher) State() gobreaker.State { return p.cb.State() }

// Close stops accepting publishes. The underlying publisher belongs to the
// Bus and is closed there.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
