// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"strings"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a hierarchical document store. Set is a full overwrite; there
// is no merge or conflict check. Haven assumes a single writer per user
// session; concurrent multi-device writers would clobber each other under
// this contract and are out of scope.
type Store interface {
	// Get returns the raw JSON document at path.
	// Returns ErrNotFound if no document exists there.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set marshals value and overwrites the document at path.
	Set(ctx context.Context, path string, value any) error

	// ListChildren returns the names of the immediate children under
	// path, e.g. the date keys under users/{uid}/chatHistory.
	ListChildren(ctx context.Context, path string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// UserPath returns the root document path for a user.
func UserPath(uid string) string {
	return "users/" + uid
}

// DayPath returns the per-day transcript document path for a user.
func DayPath(uid, date string) string {
	return "users/" + uid + "/chatHistory/" + date
}

// HistoryPath returns the chat-history collection path for a user.
func HistoryPath(uid string) string {
	return "users/" + uid + "/chatHistory"
}

// childOf returns the immediate child segment of candidate under prefix,
// or "" if candidate is not a direct child.
func childOf(prefix, candidate string) string {
	if !strings.HasPrefix(candidate, prefix+"/") {
		return ""
	}
	rest := candidate[len(prefix)+1:]
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a document store failure.
type StoreError struct {
	Op      string // "get", "set", "list"
	Path    string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches StoreErrors by operation and message so sentinel comparisons
// with errors.Is work.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message && (t.Op == "" || e.Op == t.Op)
}

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = &StoreError{Message: "document not found"}
