// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/thebox/internal/models"
)

func TestInteractions_RecordEachAction(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	bob := srv.signup("bob_01", "Lagos")
	story := srv.postText(bob, "gaming tonight")

	tests := []struct {
		path   string
		action models.Action
	}{
		{"/api/v1/interactions/view/" + story.StoryID, models.ActionView},
		{"/api/v1/interactions/react/" + story.StoryID, models.ActionReact},
		{"/api/v1/interactions/share/" + story.StoryID, models.ActionShare},
		{"/api/v1/interactions/repost/" + story.StoryID, models.ActionRepost},
		{"/api/v1/interactions/skip/" + bob.ID + "?story_id=" + story.StoryID, models.ActionSkip},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			rec := srv.do(http.MethodPost, tt.path, nil, alice.Access)
			expectStatus(t, rec, http.StatusOK)
			var event models.InteractionEvent
			decode(t, rec, &event)
			if event.Action != tt.action || event.ActorID != alice.ID || event.TargetID != bob.ID {
				t.Errorf("event = %+v", event)
			}
			if event.EventID == "" || event.SelfAction {
				t.Errorf("event id/self = %q/%v", event.EventID, event.SelfAction)
			}
		})
	}

	doc, err := srv.repos.Stories.GetDocument(context.Background(), bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	got := doc.Stories[0]
	if len(got.Views) != 1 || len(got.Reactions) != 1 || len(got.Shares) != 1 || len(got.Reposts) != 1 {
		t.Errorf("embedded lists views=%d reactions=%d shares=%d reposts=%d",
			len(got.Views), len(got.Reactions), len(got.Shares), len(got.Reposts))
	}

	history, err := srv.repos.WatchHistory.Get(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !history.Seen(story.StoryID) {
		t.Error("story not in alice's watch history")
	}
}

func TestInteractions_Errors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	bob := srv.signup("bob_01", "Lagos")
	story := srv.postText(bob, "hello")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"unknown story", "/api/v1/interactions/view/nope", alice.Access, http.StatusNotFound, CodeNotFound},
		{"unknown target", "/api/v1/interactions/skip/nobody", alice.Access, http.StatusNotFound, CodeNotFound},
		{"story of another target", "/api/v1/interactions/skip/" + alice.ID + "?story_id=" + story.StoryID, alice.Access, http.StatusNotFound, CodeNotFound},
		{"no token", "/api/v1/interactions/react/" + story.StoryID, "", http.StatusUnauthorized, CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, tt.path, nil, tt.token)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestInteractions_SelfView(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	bob := srv.signup("bob_01", "Lagos")
	story := srv.postText(bob, "me")

	before, err := srv.repos.Users.Get(context.Background(), bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	rec := srv.do(http.MethodPost, "/api/v1/interactions/view/"+story.StoryID, nil, bob.Access)
	expectStatus(t, rec, http.StatusOK)
	var event models.InteractionEvent
	decode(t, rec, &event)
	if !event.SelfAction {
		t.Error("self view not flagged")
	}

	after, err := srv.repos.Users.Get(context.Background(), bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.ProfileSignature.ProfileScore != before.ProfileSignature.ProfileScore {
		t.Errorf("self view changed score %d -> %d", before.ProfileSignature.ProfileScore, after.ProfileSignature.ProfileScore)
	}
}

func TestStories_MarkViewed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	alice := srv.signup("alice_01", "Lagos")
	bob := srv.signup("bob_01", "Lagos")
	s1 := srv.postText(bob, "one")
	s2 := srv.postText(bob, "two")

	rec := srv.do(http.MethodPost, "/api/v1/stories/viewed/"+bob.ID, nil, alice.Access)
	expectStatus(t, rec, http.StatusOK)

	history, err := srv.repos.WatchHistory.Get(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !history.Seen(s1.StoryID) || !history.Seen(s2.StoryID) {
		t.Errorf("history = %+v, want both stories", history.ViewedStories)
	}

	rec = srv.do(http.MethodPost, "/api/v1/stories/viewed/"+alice.ID, nil, bob.Access)
	expectError(t, rec, http.StatusNotFound, CodeNotFound)
}
