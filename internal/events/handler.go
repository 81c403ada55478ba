// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package events

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/metrics"
)

// Logger is a consumer that counts and logs interaction events.
type Logger struct {
	topic  string
	logger zerolog.Logger
}

// NewLogger creates a Logger for events on topic.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLogger(topic string, logger zerolog.Logger) *Logger {
	return &Logger{
		topic:  topic,
		logger: logger.With().Str("component", "interaction_log").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc. Undecodable messages are
// counted and dropped rather than retried.
func (l *Logger) Handle(msg *message.Message) error {
	event, err := DecodeMessage(msg)
	if err != nil {
		metrics.RecordEventParseFailed(l.topic)
		l.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable interaction event")
		return nil
	}

	metrics.RecordEventConsumed(l.topic, string(event.Action))
	l.logger.Info().
		Str("event_id", event.EventID).
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("target_id", event.TargetID).
		Str("story_id", event.StoryID).
		Int("weight", event.Weight).
		Bool("self_action", event.SelfAction).
		Time("occurred_at", event.OccurredAt).
		Msg("interaction")
	return nil
}
