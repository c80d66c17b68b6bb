// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"time"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/model"
	"github.com/morganforge/haven-tui/internal/storage"
)

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistRetryDelay is the pause before the single persist retry.
const persistRetryDelay = 500 * time.Millisecond

// PersistDay writes the full transcript for date to the store,
// overwriting the remote document. The caller binds date before any
// await point so a day rollover mid-write cannot redirect the payload.
// One retry on failure; the final error is reported, never fatal.
func (e *Engine) PersistDay(ctx context.Context, date dayclock.Date) error {
	e.mu.Lock()
	transcript, ok := e.history[date]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownDate
	}
	snapshot := transcript.Clone()
	path := storage.DayPath(e.user.ID, date.String())
	e.mu.Unlock()

	err := e.store.Set(ctx, path, dayDocument{Messages: snapshot})
	if err == nil {
		return nil
	}

	select {
	case <-time.After(persistRetryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.store.Set(ctx, path, dayDocument{Messages: snapshot})
}

// PersistToday binds the live day under the lock and persists it. The
// returned date tells the caller which document was written, for
// logging and for tests.
func (e *Engine) PersistToday(ctx context.Context) (dayclock.Date, error) {
	e.mu.Lock()
	date := e.today
	e.mu.Unlock()
	return date, e.PersistDay(ctx, date)
}

// =============================================================================
// DAY ROLLOVER
// =============================================================================

// Rollover reacts to the local date changing while the session is open:
// it creates the new day's document, keeps the old day's transcript as
// history, and moves the viewer to the new day when it was following the
// live day. In-flight replies still settle on the day they started on.
func (e *Engine) Rollover(ctx context.Context, newToday dayclock.Date) error {
	e.mu.Lock()
	if !e.loaded || newToday == e.today {
		e.mu.Unlock()
		return nil
	}
	followingLive := e.active == e.today
	e.mu.Unlock()

	if err := e.store.Set(ctx, storage.DayPath(e.user.ID, newToday.String()), dayDocument{Messages: model.Transcript{}}); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.history[newToday]; !ok {
		e.history[newToday] = model.Transcript{}
	}
	e.today = newToday
	if followingLive {
		e.active = newToday
	}
	return nil
}
