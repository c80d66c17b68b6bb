// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dayclock derives the calendar date that partitions conversation
// history. The unit of interest is a whole day, so the clock is polled on a
// coarse interval rather than tracked continuously; the UI re-reads it every
// minute and reacts when the day rolls over.
package dayclock
