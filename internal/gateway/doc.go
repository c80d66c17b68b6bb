// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the remote reply endpoint.
//
// The endpoint accepts a POST with {uid, message, date} and answers with
// {reply}. The client adds what the wire contract leaves out: a request
// timeout routed into the caller's failure path, bounded retries for
// transient failures, client-side rate limiting, and optional bearer-token
// auth so the endpoint does not have to be trusted anonymously.
package gateway
