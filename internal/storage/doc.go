// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the document store adapter for haven.
//
// Documents are addressed by hierarchical slash paths:
//
//	users/{uid}                     root user document (profile snapshot)
//	users/{uid}/chatHistory/{date}  one document per calendar day
//
// The adapter exposes get / full-overwrite set / list-children operations
// only; the storage engine behind them is not haven's concern. Two
// implementations exist: a SQLite-backed store for real sessions and an
// in-memory store for tests and ephemeral runs.
package storage
