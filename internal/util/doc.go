// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for haven.
//
// It contains the atomic file writer used for the config file, and
// rune/width-safe string helpers used by the UI when rendering the
// header, history labels, and status messages.
package util
