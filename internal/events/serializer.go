// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/thebox/internal/models"
)

// Metadata keys set on every interaction message.
const (
	MetadataAction   = "action"
	MetadataActorID  = "actor_id"
	MetadataTargetID = "target_id"
)

// ErrInvalidEvent is returned for events missing required fields.
var ErrInvalidEvent = errors.New("invalid interaction event")

func validate(e *models.InteractionEvent) error {
	switch {
	case e == nil:
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	case e.EventID == "":
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	case e.ActorID == "":
		return fmt.Errorf("%w: missing actor_id", ErrInvalidEvent)
	}
	if _, ok := e.Action.Weight(); !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, e.Action)
	}
	return nil
}

// NewMessage encodes an interaction event as a Watermill message keyed by
// its event id.
func NewMessage(e *models.InteractionEvent) (*message.Message, error) {
	if err := validate(e); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set(MetadataAction, string(e.Action))
	msg.Metadata.Set(MetadataActorID, e.ActorID)
	msg.Metadata.Set(MetadataTargetID, e.TargetID)
	return msg, nil
}

// DecodeMessage reads the interaction event carried by msg.
func DecodeMessage(msg *message.Message) (*models.InteractionEvent, error) {
	var e models.InteractionEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := validate(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
