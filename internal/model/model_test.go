// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/morganforge/haven-tui/internal/dayclock"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("I feel anxious")

	if msg.ID == "" {
		t.Error("Expected generated ID")
	}
	if msg.Sender != SenderUser {
		t.Errorf("Expected sender user, got %s", msg.Sender)
	}
	if msg.Pending {
		t.Error("User messages are never pending")
	}
	if msg.Text != "I feel anxious" {
		t.Errorf("Unexpected text %q", msg.Text)
	}
}

func TestNewPendingMessage(t *testing.T) {
	msg := NewPendingMessage()

	if !msg.Pending {
		t.Error("Expected pending placeholder")
	}
	if msg.Sender != SenderAI {
		t.Errorf("Expected sender ai, got %s", msg.Sender)
	}
	if msg.Text != ThinkingText {
		t.Errorf("Expected thinking placeholder text, got %q", msg.Text)
	}
}

func TestMessageResolve(t *testing.T) {
	msg := NewPendingMessage()
	resolved := msg.Resolve("Tell me more.")

	if resolved.Pending {
		t.Error("Resolved message must not stay pending")
	}
	if resolved.Failed {
		t.Error("Resolved message must not be failed")
	}
	if resolved.Text != "Tell me more." {
		t.Errorf("Unexpected reply text %q", resolved.Text)
	}
	if resolved.ID != msg.ID {
		t.Error("Resolve must keep the correlation id")
	}
}

func TestMessageMarkFailed(t *testing.T) {
	msg := NewPendingMessage()
	failed := msg.MarkFailed()

	if failed.Pending {
		t.Error("Failed message must not stay pending")
	}
	if !failed.Failed {
		t.Error("Expected terminal failed state")
	}
	if failed.Text != FailedText {
		t.Errorf("Unexpected failed text %q", failed.Text)
	}
}

func TestSenderDisplayName(t *testing.T) {
	if SenderUser.DisplayName() != "You" {
		t.Error("Unexpected user display name")
	}
	if SenderAI.DisplayName() != "Haven" {
		t.Error("Unexpected ai display name")
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestPendingIndexByID(t *testing.T) {
	pending := NewPendingMessage()
	tr := Transcript{NewUserMessage("hi"), pending}

	if got := tr.PendingIndex(pending.ID); got != 1 {
		t.Errorf("PendingIndex = %d, want 1", got)
	}
}

func TestPendingIndexFallbackMatchesNewest(t *testing.T) {
	// Two overlapping sends leave two placeholders; an unknown id must
	// fall back to the most recent one, never an older one.
	older := NewPendingMessage()
	newer := NewPendingMessage()
	tr := Transcript{NewUserMessage("a"), older, NewUserMessage("b"), newer}

	if got := tr.PendingIndex("unknown-id"); got != 3 {
		t.Errorf("Fallback PendingIndex = %d, want 3 (newest pending)", got)
	}
	// A known id still resolves the exact placeholder
	if got := tr.PendingIndex(older.ID); got != 1 {
		t.Errorf("PendingIndex(older) = %d, want 1", got)
	}
}

func TestPendingIndexNone(t *testing.T) {
	tr := Transcript{NewUserMessage("hello")}
	if got := tr.PendingIndex("anything"); got != -1 {
		t.Errorf("PendingIndex = %d, want -1", got)
	}
	if tr.HasPending() {
		t.Error("Expected no pending message")
	}
}

func TestTranscriptClone(t *testing.T) {
	tr := Transcript{NewUserMessage("hello")}
	clone := tr.Clone()
	clone[0].Text = "changed"

	if tr[0].Text != "hello" {
		t.Error("Clone must not share backing storage")
	}
}

func TestHistoryDatesDescending(t *testing.T) {
	h := History{
		"2023-12-31": {},
		"2024-01-02": {},
		"2024-01-01": {},
	}

	dates := h.Dates()
	want := []dayclock.Date{"2024-01-02", "2024-01-01", "2023-12-31"}
	if len(dates) != len(want) {
		t.Fatalf("Expected %d dates, got %d", len(want), len(dates))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}
}

// =============================================================================
// PROFILE EDITOR TESTS
// =============================================================================

func TestProfileEditorBufferedEdit(t *testing.T) {
	ed := NewProfileEditor(Profile{Name: "Maya", Email: "maya@example.com"})

	ed.StageAvatar("/tmp/avatar.png")
	if !ed.Dirty() {
		t.Error("Staging an edit must set the dirty flag")
	}
	if ed.Committed().AvatarPath != "" {
		t.Error("Committed profile must not change before Save")
	}
	if ed.Staged().AvatarPath != "/tmp/avatar.png" {
		t.Error("Staged profile must reflect the edit")
	}

	if !ed.Save() {
		t.Error("Save with staged edits must commit")
	}
	if ed.Dirty() {
		t.Error("Save must clear the dirty flag")
	}
	if ed.Committed().AvatarPath != "/tmp/avatar.png" {
		t.Error("Save must copy staging into committed state")
	}
}

func TestProfileEditorSaveNoOpWhenClean(t *testing.T) {
	ed := NewProfileEditor(Profile{Name: "Maya"})
	if ed.Save() {
		t.Error("Save with no staged edits must be a no-op")
	}
}

func TestProfileEditorDiscard(t *testing.T) {
	ed := NewProfileEditor(Profile{Name: "Maya"})
	ed.StageName("Mia")
	ed.Discard()

	if ed.Dirty() {
		t.Error("Discard must clear the dirty flag")
	}
	if ed.Staged().Name != "Maya" {
		t.Error("Discard must reset staging to committed state")
	}
}

func TestProfileEditorStageBackToCommitted(t *testing.T) {
	ed := NewProfileEditor(Profile{Name: "Maya"})
	ed.StageName("Mia")
	ed.StageName("Maya")

	if ed.Dirty() {
		t.Error("Staging the committed value back should clear dirty")
	}
}
