package interval

import (
	"fmt"
	"math"
	"strings"

	"pomodoro/internal/core/model"
)

const maxNameLength = 100

// ValidateName checks a work interval label. Names are trimmed before use.
func ValidateName(name string) *model.ValidationError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &model.ValidationError{Reason: "task name is required"}
	}
	if len(trimmed) > maxNameLength {
		return &model.ValidationError{Reason: fmt.Sprintf("task name must be %d characters or less", maxNameLength)}
	}
	return nil
}

// ValidateDuration checks a duration in fractional minutes against the
// domain bounds.
func ValidateDuration(minutes float64) *model.ValidationError {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return &model.ValidationError{Reason: "duration must be a number"}
	}
	if minutes < model.MinDurationMinutes {
		return &model.ValidationError{Reason: fmt.Sprintf("duration must be at least %g minutes", model.MinDurationMinutes)}
	}
	if minutes > model.MaxDurationMinutes {
		return &model.ValidationError{Reason: fmt.Sprintf("duration must be at most %g minutes", model.MaxDurationMinutes)}
	}
	return nil
}

// ValidateNewPomodoro checks both fields of a new work interval.
func ValidateNewPomodoro(name string, minutes float64) *model.ValidationError {
	if err := ValidateName(name); err != nil {
		return err
	}
	return ValidateDuration(minutes)
}
