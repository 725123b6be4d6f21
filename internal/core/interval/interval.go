// Package interval holds the pure time arithmetic the lifecycle controller
// runs against the wall clock: remaining time, ongoing/expired predicates,
// and the calendar bucketing used by the history views.
package interval

import (
	"fmt"
	"time"

	"pomodoro/internal/core/model"
)

// RemainingSeconds returns the whole seconds left on an entry at the given
// instant. Durations are fractional minutes, so the math stays in
// milliseconds and only the result truncates to seconds. Expired entries
// read as zero, never negative.
func RemainingSeconds(entry model.Entry, now time.Time) int {
	totalMs := int64(entry.DurationMinutes * 60_000)
	elapsedMs := now.UnixMilli() - entry.StartedAt
	remainingMs := totalMs - elapsedMs
	if remainingMs <= 0 {
		return 0
	}
	return int(remainingMs / 1000)
}

// IsOngoing reports whether the entry is still counting down.
func IsOngoing(entry model.Entry, now time.Time) bool {
	if entry.Completed {
		return false
	}
	return RemainingSeconds(entry, now) > 0
}

// IsExpired reports whether the entry ran out of time but has not been
// processed by a completion transition yet.
func IsExpired(entry model.Entry, now time.Time) bool {
	if entry.Completed {
		return false
	}
	return RemainingSeconds(entry, now) <= 0
}

// FormatClock renders a second count as MM:SS.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
