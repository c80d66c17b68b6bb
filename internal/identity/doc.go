// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity wraps the external sign-in flow and yields the opaque
// authenticated-user handle that gates every storage operation.
//
// Two providers exist: an OAuth2 device-authorization provider for real
// identity services (the flow fits a terminal client, no browser redirect
// to catch), and a static provider for offline use and tests. Auth state
// changes fan out to registered observers; a sign-in failure is never
// fatal, the UI just re-presents the sign-in screen.
package identity
