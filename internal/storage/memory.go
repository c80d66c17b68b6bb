// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemoryStore is an in-memory Store used by tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage

	// Fail hooks let tests script read/write failures per path.
	FailGet func(path string) error
	FailSet func(path string) error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]json.RawMessage)}
}

// Get returns the raw JSON document at path.
func (s *MemoryStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if s.FailGet != nil {
		if err := s.FailGet(path); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out, nil
}

// Set marshals value and overwrites the document at path.
func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	if s.FailSet != nil {
		if err := s.FailSet(path); err != nil {
			return err
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return &StoreError{Op: "set", Path: path, Message: "failed to marshal document", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = data
	return nil
}

// ListChildren returns the immediate child names under path, ascending.
func (s *MemoryStore) ListChildren(ctx context.Context, path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var children []string
	for p := range s.docs {
		if child := childOf(path, p); child != "" {
			children = append(children, child)
		}
	}
	sort.Strings(children)
	return children, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored documents. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
