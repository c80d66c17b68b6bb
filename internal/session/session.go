// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/engine"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/storage"
)

// =============================================================================
// SESSION
// =============================================================================

// ErrDisposed is returned by operations on a disposed session.
var ErrDisposed = errors.New("session disposed")

// Session owns the per-sign-in resources: the store and the engine.
// The zero value is not usable; build one with New and call Init
// before use.
type Session struct {
	mu sync.Mutex

	id        string
	user      identity.User
	store     storage.Store
	engine    *engine.Engine
	clock     *dayclock.Clock
	startTime time.Time

	disposed bool
}

// New creates a session for an authenticated user. The engine is built
// here but holds no data until Init loads the history.
func New(user identity.User, store storage.Store, replier engine.Replier, clock *dayclock.Clock) *Session {
	now := time.Now()
	return &Session{
		id:        "sess_" + now.Format("20060102_150405"),
		user:      user,
		store:     store,
		engine:    engine.New(user, store, replier, clock),
		clock:     clock,
		startTime: now,
	}
}

// Init performs the bulk history load. Called once, right after sign-in.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	s.mu.Unlock()

	return s.engine.LoadAll(ctx)
}

// Dispose tears the session down and closes the store. Idempotent.
// The caller stops its own rollover ticker; nothing here keeps running
// after Dispose returns.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	s.disposed = true
	return s.store.Close()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ID returns the session identifier, used in log lines.
func (s *Session) ID() string {
	return s.id
}

// User returns the authenticated user handle.
func (s *Session) User() identity.User {
	return s.user
}

// Engine returns the conversation engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// StartTime returns when the session was created.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// Duration returns how long the session has been alive.
func (s *Session) Duration() time.Duration {
	return time.Since(s.startTime)
}

// Disposed reports whether Dispose has run.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
