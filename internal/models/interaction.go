// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package models

import (
	"time"

	"github.com/tomtom215/thebox/internal/apperr"
)

// Action is an interaction kind.
type Action string

const (
	ActionView   Action = "view"
	ActionSkip   Action = "skip"
	ActionReact  Action = "react"
	ActionShare  Action = "share"
	ActionRepost Action = "repost"
)

var actionWeights = map[Action]int{
	ActionView:   1,
	ActionSkip:   -2,
	ActionReact:  2,
	ActionShare:  3,
	ActionRepost: 2,
}

// Actions lists all actions in a stable order.
func Actions() []Action {
	return []Action{ActionView, ActionSkip, ActionReact, ActionShare, ActionRepost}
}

// Weight returns the signal weight of the action.
func (a Action) Weight() (int, bool) {
	w, ok := actionWeights[a]
	return w, ok
}

// StoryScoped reports whether the action addresses a story rather than a user.
func (a Action) StoryScoped() bool {
	return a != ActionSkip
}

// ParseAction validates s as an action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionWeights[a]; !ok {
		return "", apperr.Validation("action", "unknown action %q", s)
	}
	return a, nil
}

// InteractionEvent is published after an interaction is applied.
type InteractionEvent struct {
	EventID    string    `json:"event_id"`
	Action     Action    `json:"action"`
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id"`
	StoryID    string    `json:"story_id,omitempty"`
	Weight     int       `json:"weight"`
	SelfAction bool      `json:"self_action,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
