// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"testing"
)

func TestStaticProviderSignIn(t *testing.T) {
	p := NewStaticProvider(User{ID: "u1", DisplayName: "Maya", Email: "maya@example.com"})

	user, err := p.SignIn(context.Background())
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if user.ID != "u1" || user.DisplayName != "Maya" {
		t.Errorf("Unexpected user: %+v", user)
	}
}

func TestStaticProviderRequiresID(t *testing.T) {
	p := NewStaticProvider(User{})

	_, err := p.SignIn(context.Background())
	if err == nil {
		t.Fatal("Expected AuthError for missing user id")
	}
}

func TestAuthStateObservers(t *testing.T) {
	p := NewStaticProvider(User{ID: "u1"})

	var events []*User
	unsub := p.OnAuthStateChange(func(u *User) {
		events = append(events, u)
	})

	if _, err := p.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	p.SignOut()

	if len(events) != 2 {
		t.Fatalf("Expected 2 auth events, got %d", len(events))
	}
	if events[0] == nil || events[0].ID != "u1" {
		t.Errorf("First event should carry the user, got %+v", events[0])
	}
	if events[1] != nil {
		t.Errorf("Sign-out event should be nil, got %+v", events[1])
	}

	// After unsubscribe no further events arrive
	unsub()
	p.SignOut()
	if len(events) != 2 {
		t.Errorf("Expected no events after unsubscribe, got %d", len(events))
	}
}

func TestUserInitial(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{DisplayName: "maya"}, "M"},
		{User{DisplayName: "Zoe"}, "Z"},
		{User{DisplayName: "émile"}, "É"},
		{User{Email: "kai@example.com"}, "K"},
		{User{}, "U"},
	}
	for _, tt := range tests {
		if got := tt.user.Initial(); got != tt.want {
			t.Errorf("Initial(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}
