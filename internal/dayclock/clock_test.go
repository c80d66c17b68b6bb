// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dayclock

import (
	"testing"
	"time"
)

func TestTodayYesterday(t *testing.T) {
	c := NewFixed(time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC))

	if got := c.Today(); got != Date("2024-01-02") {
		t.Errorf("Today() = %q, want 2024-01-02", got)
	}
	if got := c.Yesterday(); got != Date("2024-01-01") {
		t.Errorf("Yesterday() = %q, want 2024-01-01", got)
	}
}

func TestYesterdayAcrossMonthBoundary(t *testing.T) {
	c := NewFixed(time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC))

	if got := c.Yesterday(); got != Date("2024-02-29") {
		t.Errorf("Yesterday() = %q, want 2024-02-29 (leap year)", got)
	}
}

func TestLabel(t *testing.T) {
	today := Date("2024-01-02")
	yesterday := Date("2024-01-01")

	tests := []struct {
		date Date
		want string
	}{
		{today, "Today"},
		{yesterday, "Yesterday"},
		{Date("2023-12-31"), "Dec 31, 2023"},
		{Date("2023-07-04"), "Jul 4, 2023"},
		{Date("garbage"), "garbage"},
	}

	for _, tt := range tests {
		if got := Label(tt.date, today, yesterday); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestDateValid(t *testing.T) {
	if !Date("2024-01-02").Valid() {
		t.Error("Expected valid date")
	}
	if Date("2024-1-2").Valid() {
		t.Error("Expected non-padded date to be invalid")
	}
	if Date("").Valid() {
		t.Error("Expected empty date to be invalid")
	}
}

func TestDateOrdering(t *testing.T) {
	// Zero-padded ISO dates sort chronologically as strings; the history
	// panel relies on this for reverse-chronological listing.
	if !(Date("2023-12-31") < Date("2024-01-01")) {
		t.Error("Expected lexicographic order to match chronological order")
	}
}
