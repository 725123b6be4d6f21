package lifecycle

import (
	"time"

	"pomodoro/internal/core/model"
)

// State represents the current controller mode. It is derived from the
// entry store on every evaluation, never stored.
type State string

const (
	StateIdle State = "idle"
	StateWork State = "work"
	StateRest State = "rest"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventError       EventType = "error"
)

// Event represents a controller update for observers.
type Event struct {
	Type             EventType
	State            State
	Entry            model.Entry
	RemainingSeconds int
	Message          string
	At               time.Time
}
