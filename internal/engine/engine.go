// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/model"
	"github.com/morganforge/haven-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrReadOnlyDay is returned when sending into a historical day.
	ErrReadOnlyDay = errors.New("historical days are read-only")

	// ErrEmptyMessage is returned when the trimmed text is empty.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrReplyInFlight is returned while a pending reply exists and
	// overlapping sends are not permitted.
	ErrReplyInFlight = errors.New("a reply is still in flight")

	// ErrUnknownDate is returned by SelectDate for dates not in history.
	ErrUnknownDate = errors.New("no transcript for that date")

	// ErrNotLoaded is returned when an operation needs a loaded history.
	ErrNotLoaded = errors.New("history not loaded")
)

// LoadPhase identifies which step of the bulk load failed. Root-record
// creation and history load fail independently and are reported apart.
type LoadPhase string

const (
	PhaseRoot    LoadPhase = "root"
	PhaseHistory LoadPhase = "history"
)

// LoadError reports a failed bulk load. The whole load aborts; partial
// histories are never exposed.
type LoadError struct {
	Phase LoadPhase
	Cause error
}

func (e *LoadError) Error() string {
	if e.Phase == PhaseRoot {
		return "could not load your profile: " + e.Cause.Error()
	}
	return "could not load history: " + e.Cause.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// DOCUMENT SHAPES
// =============================================================================

// dayDocument is the stored shape of one day's transcript.
type dayDocument struct {
	Messages model.Transcript `json:"messages"`
}

// rootDocument is the stored shape of the user's root record.
type rootDocument struct {
	Profile model.Profile `json:"profile"`
}

// =============================================================================
// REPLIER
// =============================================================================

// Replier is the remote chat gateway as the engine sees it: an opaque
// request/reply capability that may stall or fail.
type Replier interface {
	Send(ctx context.Context, uid, message, date string) (string, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the conversation sync engine. All state lives behind one
// mutex; the UI applies mutations from its single update loop, so the
// lock is protection against the background persist and deliver
// commands, not a concurrency framework.
type Engine struct {
	mu sync.Mutex

	user    identity.User
	store   storage.Store
	replier Replier
	clock   *dayclock.Clock

	loaded  bool
	history model.History
	today   dayclock.Date
	active  dayclock.Date
	profile *model.ProfileEditor

	// pendingDates binds each in-flight placeholder to the day it was
	// created on, so a rollover mid-flight cannot misdirect the
	// resolution or its persist.
	pendingDates map[string]dayclock.Date

	// allowOverlap permits a second send while a reply is in flight.
	// Off by default; correlation ids keep resolution correct either way.
	allowOverlap bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOverlappingSends permits sends while a reply is still pending.
func WithOverlappingSends() Option {
	return func(e *Engine) { e.allowOverlap = true }
}

// New creates an engine for an authenticated user. The history is empty
// until LoadAll runs.
func New(user identity.User, store storage.Store, replier Replier, clock *dayclock.Clock, opts ...Option) *Engine {
	e := &Engine{
		user:         user,
		store:        store,
		replier:      replier,
		clock:        clock,
		history:      make(model.History),
		profile:      model.NewProfileEditor(model.Profile{}),
		pendingDates: make(map[string]dayclock.Date),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// LOAD
// =============================================================================

// LoadAll fetches the root record (creating it with a default profile
// snapshot on first sign-in) and every per-day document, guarantees an
// empty document for today, and makes today the active viewing date.
// Idempotent; safe to re-run on a date rollover.
func (e *Engine) LoadAll(ctx context.Context) error {
	today := e.clock.Today()

	profile, err := e.ensureRoot(ctx)
	if err != nil {
		return &LoadError{Phase: PhaseRoot, Cause: err}
	}

	history, err := e.loadHistory(ctx, today)
	if err != nil {
		return &LoadError{Phase: PhaseHistory, Cause: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = history
	e.today = today
	e.active = today
	e.profile = model.NewProfileEditor(profile)
	e.loaded = true
	return nil
}

// ensureRoot fetches the user's root record, creating it with a profile
// snapshot from the identity handle when absent.
func (e *Engine) ensureRoot(ctx context.Context) (model.Profile, error) {
	raw, err := e.store.Get(ctx, storage.UserPath(e.user.ID))
	if err == nil {
		var root rootDocument
		if err := json.Unmarshal(raw, &root); err != nil {
			return model.Profile{}, err
		}
		return root.Profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.Profile{}, err
	}

	snapshot := model.Profile{
		Name:       e.user.DisplayName,
		Email:      e.user.Email,
		AvatarPath: e.user.AvatarURL,
	}
	if err := e.store.Set(ctx, storage.UserPath(e.user.ID), rootDocument{Profile: snapshot}); err != nil {
		return model.Profile{}, err
	}
	return snapshot, nil
}

// loadHistory fetches every stored day and guarantees an entry plus a
// remote document for today.
func (e *Engine) loadHistory(ctx context.Context, today dayclock.Date) (model.History, error) {
	dates, err := e.store.ListChildren(ctx, storage.HistoryPath(e.user.ID))
	if err != nil {
		return nil, err
	}

	history := make(model.History, len(dates)+1)
	for _, date := range dates {
		raw, err := e.store.Get(ctx, storage.DayPath(e.user.ID, date))
		if errors.Is(err, storage.ErrNotFound) {
			// Listed but gone; treat as an absent key, not an error.
			continue
		}
		if err != nil {
			return nil, err
		}
		var doc dayDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		history[dayclock.Date(date)] = doc.Messages
	}

	// The live day is always writable: create its document up front so
	// no later write needs a pre-flight existence check.
	if _, ok := history[today]; !ok {
		if err := e.store.Set(ctx, storage.DayPath(e.user.ID, today.String()), dayDocument{Messages: model.Transcript{}}); err != nil {
			return nil, err
		}
		history[today] = model.Transcript{}
	}
	return history, nil
}

// =============================================================================
// SEND
// =============================================================================

// Send applies the optimistic half of the send protocol: it appends the
// user's message and then a pending placeholder to today's transcript,
// both immediately visible. It returns the placeholder's correlation id;
// the caller then runs Deliver and applies Resolve or Fail.
//
// Sending is rejected while a historical day is active, when the trimmed
// text is empty, and (unless overlapping sends were enabled) while a
// reply is already in flight.
func (e *Engine) Send(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return "", ErrNotLoaded
	}
	if e.active != e.today {
		return "", ErrReadOnlyDay
	}
	if !e.allowOverlap && e.history[e.today].HasPending() {
		return "", ErrReplyInFlight
	}

	pending := model.NewPendingMessage()
	e.history[e.today] = append(e.history[e.today], model.NewUserMessage(text), pending)
	e.pendingDates[pending.ID] = e.today
	return pending.ID, nil
}

// Deliver relays the message to the gateway, bound to the day the
// placeholder was created on. Safe to call without holding up the UI;
// the result is applied afterwards with Resolve or Fail.
func (e *Engine) Deliver(ctx context.Context, id, text string) (string, error) {
	e.mu.Lock()
	date, ok := e.pendingDates[id]
	if !ok {
		date = e.today
	}
	uid := e.user.ID
	e.mu.Unlock()

	return e.replier.Send(ctx, uid, text, date.String())
}

// Resolve replaces the pending placeholder with the final reply.
// Returns the day the reply landed on, or false when no placeholder was
// found (defensive no-op; the transcript stays unchanged).
func (e *Engine) Resolve(id, reply string) (dayclock.Date, bool) {
	return e.settle(id, func(m model.Message) model.Message { return m.Resolve(reply) })
}

// Fail converts the pending placeholder into a terminal failed bubble so
// a gateway failure or timeout never leaves the transcript stuck on
// "Thinking...".
func (e *Engine) Fail(id string) (dayclock.Date, bool) {
	return e.settle(id, func(m model.Message) model.Message { return m.MarkFailed() })
}

// settle applies an in-place replacement of the placeholder matched by
// correlation id, falling back to the newest pending message.
func (e *Engine) settle(id string, apply func(model.Message) model.Message) (dayclock.Date, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	date, ok := e.pendingDates[id]
	if !ok {
		date = e.today
	}
	delete(e.pendingDates, id)

	transcript := e.history[date]
	i := transcript.PendingIndex(id)
	if i < 0 {
		return date, false
	}
	transcript[i] = apply(transcript[i])
	return date, true
}

// =============================================================================
// NAVIGATION & ACCESSORS
// =============================================================================

// SelectDate switches the active viewing date. Only dates present in the
// history can be selected; everything but today is read-only.
func (e *Engine) SelectDate(date dayclock.Date) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.history[date]; !ok {
		return ErrUnknownDate
	}
	e.active = date
	return nil
}

// Active returns the active viewing date.
func (e *Engine) Active() dayclock.Date {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Today returns the live day as bound at the last load.
func (e *Engine) Today() dayclock.Date {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.today
}

// Dates returns every known date, newest first.
func (e *Engine) Dates() []dayclock.Date {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Dates()
}

// Messages returns a copy of the transcript for date.
func (e *Engine) Messages(date dayclock.Date) model.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history[date].Clone()
}

// ActiveMessages returns a copy of the active day's transcript.
func (e *Engine) ActiveMessages() model.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history[e.active].Clone()
}

// CanSend reports whether the input surface should accept a message:
// the live day is active and, unless overlap is permitted, no reply is
// in flight.
func (e *Engine) CanSend() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded || e.active != e.today {
		return false
	}
	return e.allowOverlap || !e.history[e.today].HasPending()
}

// User returns the authenticated user handle.
func (e *Engine) User() identity.User {
	return e.user
}
