// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"

	"github.com/morganforge/haven-tui/internal/dayclock"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered message sequence for one calendar date.
// Append-only, except for the in-place resolution of a pending placeholder.
type Transcript []Message

// Clone returns a copy of the transcript. Messages are value types, so a
// slice copy is a deep copy.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// PendingIndex returns the index of the pending message matching id.
// If id is unknown it falls back to the last pending message, searching
// from the end so an older stale placeholder is never matched first.
// Returns -1 if no pending message exists.
func (t Transcript) PendingIndex(id string) int {
	for i, m := range t {
		if m.ID == id && m.Pending {
			return i
		}
	}
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Pending {
			return i
		}
	}
	return -1
}

// HasPending reports whether any message is still awaiting a reply.
func (t Transcript) HasPending() bool {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Pending {
			return true
		}
	}
	return false
}

// =============================================================================
// HISTORY
// =============================================================================

// History maps calendar dates to their transcripts. It mirrors the remote
// per-day document collection; the entry for today always exists once a
// session is established.
type History map[dayclock.Date]Transcript

// Dates returns all dates in descending ISO order (newest first).
func (h History) Dates() []dayclock.Date {
	dates := make([]dayclock.Date, 0, len(h))
	for d := range h {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
	return dates
}

// Clone returns a deep copy of the history.
func (h History) Clone() History {
	out := make(History, len(h))
	for d, t := range h {
		out[d] = t.Clone()
	}
	return out
}
