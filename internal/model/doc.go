// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for haven's per-day chat
// transcripts: messages, day transcripts, the in-memory history map that
// mirrors the remote document collection, and the user profile with its
// buffered-edit protocol.
//
// Messages carry a correlation id generated when the message is created.
// A pending assistant placeholder is resolved by that id when the gateway
// reply arrives, so resolution stays correct even if more than one request
// is ever in flight; positional search from the end of the transcript is
// kept only as a defensive fallback.
package model
