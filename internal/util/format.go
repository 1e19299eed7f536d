// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers for the ai-cli client.
package util

import (
	"strconv"
	"time"
)

// =============================================================================
// NUMBER FORMATTING
// =============================================================================

// IntToString converts an int to string.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// FloatToString converts a float64 to string with 2 decimal places.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// =============================================================================
// TIME FORMATTING
// =============================================================================

// FormatClock formats a timestamp as HH:MM for transcript display.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatDuration renders a duration as "850ms" below one second and
// "2.5s" style above it.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
}
