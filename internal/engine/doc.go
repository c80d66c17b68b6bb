// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns haven's in-memory conversation state and the rules
// for keeping it in step with the remote per-day document collection.
//
// The engine loads every stored day at session start, guarantees that the
// live day ("today") always has a writable document, applies the
// optimistic send protocol (user bubble, then a pending placeholder,
// reconciled by correlation id when the gateway answers or fails), and
// persists only the live day, full-overwrite, with the target date bound
// at dispatch time so a mid-flight day rollover can never write one day's
// messages to another day's path.
//
// Persistence is last-write-wins with no version check. That is sound for
// the single-writer-per-session model haven assumes and is documented as
// a known limitation for anyone adding multi-device support later.
package engine
