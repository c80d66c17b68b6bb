// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea interface for haven.
//
// The UI is a single Model with four screens: sign-in, chat, history,
// and profile. All state mutation flows through Update; background work
// (gateway calls, persists, the day rollover) arrives as messages from
// commands, never by touching the model from another goroutine.
package chat
