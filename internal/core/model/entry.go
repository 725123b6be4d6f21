package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// Kind distinguishes work intervals from rest intervals. The values double
// as the serialized wire form.
type Kind string

const (
	KindWork Kind = "pomodoro"
	KindRest Kind = "rest"
)

// Domain limits for interval durations, in minutes.
const (
	DefaultWorkMinutes = 25.0
	MinDurationMinutes = 0.01
	MaxDurationMinutes = 60.0
	RestMinutes        = 5.0
)

// RestName is the fixed label given to every rest entry.
const RestName = "Rest"

// Entry is one logged interval. It is immutable after creation except for
// the Completed flag, which flips false to true exactly once.
type Entry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration"`
	DateKey         string  `json:"date"`
	Completed       bool    `json:"completed"`
	StartedAt       int64   `json:"startedAt"`
	Kind            Kind    `json:"type"`
}

// Started returns the entry start instant.
func (entry Entry) Started() time.Time {
	return time.UnixMilli(entry.StartedAt)
}

// MonthSummary maps a dateKey to the count of completed work entries on that
// day. It is always derived from the entry log, never stored.
type MonthSummary map[string]int

// NewEntryID returns a unique id ordered by creation time: base-36
// epoch milliseconds followed by a random suffix to break ties.
func NewEntryID(now time.Time) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return strconv.FormatInt(now.UnixMilli(), 36) + hex.EncodeToString(suffix)
}
