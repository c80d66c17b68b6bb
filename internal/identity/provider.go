// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"sync"

	"github.com/morganforge/haven-tui/internal/util"
)

// =============================================================================
// USER HANDLE
// =============================================================================

// User is the opaque authenticated-user handle. Immutable for the
// lifetime of a session.
type User struct {
	ID          string
	DisplayName string
	Email       string
	AvatarURL   string
}

// Initial returns the single-character avatar fallback: the first rune of
// the display name, else the email, else "U".
func (u *User) Initial() string {
	if s := util.FirstRuneUpper(u.DisplayName, ""); s != "" {
		return s
	}
	return util.FirstRuneUpper(u.Email, "U")
}

// =============================================================================
// PROVIDER INTERFACE
// =============================================================================

// Provider is the sign-in adapter. SignIn blocks until the user completes
// or abandons the external flow.
type Provider interface {
	// SignIn runs the external sign-in flow and returns the user handle.
	// A rejected or cancelled flow returns an AuthError.
	SignIn(ctx context.Context) (*User, error)

	// SignOut tears the session down and notifies observers with nil.
	SignOut()

	// OnAuthStateChange registers an observer called with the user on
	// session establish and nil on teardown. Returns an unsubscribe
	// function; callers must unsubscribe on disposal.
	OnAuthStateChange(fn func(*User)) (unsubscribe func())
}

// =============================================================================
// AUTH ERRORS
// =============================================================================

// AuthError represents a sign-in failure. Recoverable: the UI re-presents
// the sign-in prompt.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// OBSERVER REGISTRY
// =============================================================================

// observers is the shared auth-state fan-out embedded by providers.
type observers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(*User)
}

func (o *observers) add(fn func(*User)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func(*User))
	}
	id := o.next
	o.next++
	o.fns[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.fns, id)
	}
}

func (o *observers) notify(u *User) {
	o.mu.Lock()
	fns := make([]func(*User), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	// Callbacks run outside the lock; an observer may unsubscribe itself.
	for _, fn := range fns {
		fn(u)
	}
}

// =============================================================================
// STATIC PROVIDER
// =============================================================================

// StaticProvider signs in a pre-configured user without any network.
// Used for offline mode and tests.
type StaticProvider struct {
	User User
	observers
}

// NewStaticProvider creates a provider that always yields user.
func NewStaticProvider(user User) *StaticProvider {
	return &StaticProvider{User: user}
}

// SignIn returns the configured user and notifies observers.
func (p *StaticProvider) SignIn(ctx context.Context) (*User, error) {
	if p.User.ID == "" {
		return nil, &AuthError{Message: "no user configured"}
	}
	u := p.User
	p.notify(&u)
	return &u, nil
}

// SignOut notifies observers of teardown.
func (p *StaticProvider) SignOut() {
	p.notify(nil)
}

// OnAuthStateChange registers an auth-state observer.
func (p *StaticProvider) OnAuthStateChange(fn func(*User)) func() {
	return p.add(fn)
}
