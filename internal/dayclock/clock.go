// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dayclock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PollInterval is how often the UI re-derives the current date.
// One minute is plenty: the value only changes once per day.
const PollInterval = 60 * time.Second

// dateLayout is the ISO calendar date format used as the history
// partition key. Zero-padded, so lexicographic order is chronological.
const dateLayout = "2006-01-02"

// labelLayout is the display format for dates other than today and
// yesterday ("Jan 2, 2006").
const labelLayout = "Jan 2, 2006"

// =============================================================================
// DATE TYPE
// =============================================================================

// Date is an ISO YYYY-MM-DD calendar date string.
type Date string

// String returns the raw ISO form.
func (d Date) String() string {
	return string(d)
}

// Valid reports whether d parses as an ISO calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock derives calendar dates from a time source. The source is
// injectable so tests can pin the day.
type Clock struct {
	now func() time.Time
}

// New creates a clock backed by the wall clock.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewFixed creates a clock pinned to a specific instant. Test use.
func NewFixed(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }}
}

// Today returns the current calendar date.
func (c *Clock) Today() Date {
	return Date(c.now().Format(dateLayout))
}

// Yesterday returns the calendar date one day before today.
func (c *Clock) Yesterday() Date {
	return Date(c.now().AddDate(0, 0, -1).Format(dateLayout))
}

// =============================================================================
// LABELS
// =============================================================================

// Label returns the display label for a date: "Today", "Yesterday", or a
// short calendar string for every other day. Unparseable dates fall back
// to their raw ISO form.
func Label(d, today, yesterday Date) string {
	switch d {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	}
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format(labelLayout)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is delivered on every poll of the clock.
type TickMsg struct {
	Today Date
}

// TickCmd returns a command that polls the clock after PollInterval.
// The caller re-issues it from its update loop to keep the poll running,
// and simply stops re-issuing on teardown so no timer outlives the session.
func TickCmd(c *Clock) tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return TickMsg{Today: c.Today()}
	})
}
