// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/storage"
)

type echoReplier struct{}

func (echoReplier) Send(ctx context.Context, uid, message, date string) (string, error) {
	return "echo: " + message, nil
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	clock := dayclock.NewFixed(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	user := identity.User{ID: "u1", DisplayName: "Maya"}
	return New(user, storage.NewMemoryStore(), echoReplier{}, clock)
}

func TestInitLoadsHistory(t *testing.T) {
	s := newTestSession(t)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if s.Engine().Today() != "2025-03-14" {
		t.Errorf("Engine today = %q", s.Engine().Today())
	}
	if s.User().ID != "u1" {
		t.Errorf("User = %+v", s.User())
	}
}

func TestDisposeIdempotent(t *testing.T) {
	s := newTestSession(t)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := s.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if !s.Disposed() {
		t.Error("Disposed should report true")
	}
	if err := s.Dispose(); err != nil {
		t.Errorf("Second Dispose errored: %v", err)
	}
}

func TestInitAfterDispose(t *testing.T) {
	s := newTestSession(t)
	if err := s.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if err := s.Init(context.Background()); err != ErrDisposed {
		t.Errorf("Init on disposed session = %v, want ErrDisposed", err)
	}
}

func TestTwoSessionsAreIndependent(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init a failed: %v", err)
	}
	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("Init b failed: %v", err)
	}

	if _, err := a.Engine().Send("only in a"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msgs := b.Engine().ActiveMessages(); len(msgs) != 0 {
		t.Errorf("Session b saw session a's messages: %d", len(msgs))
	}
	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose a failed: %v", err)
	}
	if b.Disposed() {
		t.Error("Disposing a should not dispose b")
	}
}

func TestSessionIDFormat(t *testing.T) {
	s := newTestSession(t)
	if len(s.ID()) == 0 || s.ID()[:5] != "sess_" {
		t.Errorf("Session ID = %q", s.ID())
	}
}
