// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

// storeFactories lets every contract test run against both implementations.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("OpenSQLite failed: %v", err)
			}
			return s
		},
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			_, err := s.Get(context.Background(), UserPath("u1"))
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSetThenGet(t *testing.T) {
	type doc struct {
		Messages []string `json:"messages"`
	}

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			path := DayPath("u1", "2024-01-01")
			if err := s.Set(ctx, path, doc{Messages: []string{"hi"}}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			raw, err := s.Get(ctx, path)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			var got doc
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if len(got.Messages) != 1 || got.Messages[0] != "hi" {
				t.Errorf("Unexpected document: %+v", got)
			}
		})
	}
}

func TestSetIsFullOverwrite(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			path := DayPath("u1", "2024-01-01")
			if err := s.Set(ctx, path, map[string]any{"a": 1, "b": 2}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set(ctx, path, map[string]any{"a": 3}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			raw, err := s.Get(ctx, path)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if _, exists := got["b"]; exists {
				t.Error("Set must replace the whole document, not merge")
			}
		})
	}
}

func TestListChildren(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			// Root doc, two day docs, and a doc for another user.
			if err := s.Set(ctx, UserPath("u1"), map[string]string{"name": "Maya"}); err != nil {
				t.Fatal(err)
			}
			for _, date := range []string{"2024-01-01", "2023-12-31"} {
				if err := s.Set(ctx, DayPath("u1", date), map[string]any{"messages": []string{}}); err != nil {
					t.Fatal(err)
				}
			}
			if err := s.Set(ctx, DayPath("u2", "2024-01-01"), map[string]any{"messages": []string{}}); err != nil {
				t.Fatal(err)
			}

			children, err := s.ListChildren(ctx, HistoryPath("u1"))
			if err != nil {
				t.Fatalf("ListChildren failed: %v", err)
			}
			if len(children) != 2 {
				t.Fatalf("Expected 2 children, got %d: %v", len(children), children)
			}
			if children[0] != "2023-12-31" || children[1] != "2024-01-01" {
				t.Errorf("Unexpected children: %v", children)
			}

			// The user root doc is not a child of the history collection,
			// and grandchildren of users/ must not leak through.
			users, err := s.ListChildren(ctx, "users")
			if err != nil {
				t.Fatalf("ListChildren failed: %v", err)
			}
			for _, u := range users {
				if u != "u1" && u != "u2" {
					t.Errorf("Unexpected child of users: %q", u)
				}
			}
		})
	}
}

func TestListChildrenEmpty(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			children, err := s.ListChildren(context.Background(), HistoryPath("nobody"))
			if err != nil {
				t.Fatalf("ListChildren failed: %v", err)
			}
			if len(children) != 0 {
				t.Errorf("Expected no children, got %v", children)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.Set(ctx, UserPath("u1"), map[string]string{"name": "Maya"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	raw, err := s.Get(ctx, UserPath("u1"))
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	var profile map[string]string
	if err := json.Unmarshal(raw, &profile); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if profile["name"] != "Maya" {
		t.Errorf("Unexpected profile after reopen: %v", profile)
	}
}

func TestStoreErrorIs(t *testing.T) {
	err := &StoreError{Op: "get", Path: "users/u1", Message: "document not found"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected errors.Is to match ErrNotFound")
	}

	other := &StoreError{Op: "get", Path: "users/u1", Message: "query failed"}
	if errors.Is(other, ErrNotFound) {
		t.Error("Different message must not match ErrNotFound")
	}
}
