// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/session"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// SignInPromptMsg carries the device-flow verification details to show
// while sign-in waits for the user.
type SignInPromptMsg struct {
	VerificationURI string
	UserCode        string
}

// SignInDoneMsg reports the outcome of the sign-in flow.
type SignInDoneMsg struct {
	User *identity.User
	Err  error
}

// SessionReadyMsg reports that the session finished its bulk load, or
// why it could not.
type SessionReadyMsg struct {
	Session *session.Session
	Err     error
}

// ReplyMsg carries the gateway's answer (or failure) for one pending
// message, correlated by id.
type ReplyMsg struct {
	ID    string
	Reply string
	Err   error
}

// PersistDoneMsg reports a background transcript write.
type PersistDoneMsg struct {
	Date dayclock.Date
	Err  error
}

// ProfileSavedMsg reports a profile save attempt.
type ProfileSavedMsg struct {
	Err error
}

// RolloverDoneMsg reports that the engine moved to a new live day.
type RolloverDoneMsg struct {
	Today dayclock.Date
	Err   error
}
