package preferences

import (
	"time"

	"pomodoro/internal/core/lifecycle"
	"pomodoro/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	DefaultWorkMinutes float64
	RestMinutes        float64
	Notifications      bool
	Autostart          bool
}

// DefaultSettings returns default settings for Pomodoro.
func DefaultSettings() Settings {
	return Settings{
		DefaultWorkMinutes: model.DefaultWorkMinutes,
		RestMinutes:        model.RestMinutes,
		Notifications:      true,
		Autostart:          false,
	}
}

// ControllerConfig converts settings to the lifecycle controller config.
func (settings Settings) ControllerConfig() lifecycle.Config {
	return lifecycle.Config{
		RestDurationMinutes: settings.RestMinutes,
		TickInterval:        time.Second,
	}
}
