// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/session"
)

// =============================================================================
// COMMANDS
// =============================================================================

// deliverTimeout bounds one gateway round trip, including the client's
// internal retries.
const deliverTimeout = 90 * time.Second

// signInCmd runs the provider's sign-in flow.
func signInCmd(provider identity.Provider) tea.Cmd {
	return func() tea.Msg {
		user, err := provider.SignIn(context.Background())
		return SignInDoneMsg{User: user, Err: err}
	}
}

// initSessionCmd builds the session and runs the bulk history load.
func initSessionCmd(build func() (*session.Session, error)) tea.Cmd {
	return func() tea.Msg {
		sess, err := build()
		if err != nil {
			return SessionReadyMsg{Err: err}
		}
		if err := sess.Init(context.Background()); err != nil {
			sess.Dispose()
			return SessionReadyMsg{Err: err}
		}
		return SessionReadyMsg{Session: sess}
	}
}

// deliverCmd relays one message to the gateway. The correlation id
// travels with the result so the reply lands on the right placeholder.
func deliverCmd(sess *session.Session, id, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()
		reply, err := sess.Engine().Deliver(ctx, id, text)
		return ReplyMsg{ID: id, Reply: reply, Err: err}
	}
}

// persistCmd writes the transcript for date. The date is bound here, at
// dispatch, so a rollover between dispatch and write cannot retarget it.
func persistCmd(sess *session.Session, date dayclock.Date) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := sess.Engine().PersistDay(ctx, date)
		return PersistDoneMsg{Date: date, Err: err}
	}
}

// saveProfileCmd commits staged profile edits to the store.
func saveProfileCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return ProfileSavedMsg{Err: sess.Engine().SaveProfile(ctx)}
	}
}

// rolloverCmd moves the engine to the new live day.
func rolloverCmd(sess *session.Session, today dayclock.Date) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := sess.Engine().Rollover(ctx, today)
		return RolloverDoneMsg{Today: today, Err: err}
	}
}
