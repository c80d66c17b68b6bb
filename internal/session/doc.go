// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session ties a signed-in user to the resources that live
// exactly as long as the sign-in does: the document store, the chat
// gateway client, and the conversation engine.
//
// A Session is created after authentication, initialized once with
// Init, and torn down with Dispose. Nothing in here is global; two
// sessions can coexist in tests without sharing state.
package session
