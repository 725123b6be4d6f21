// Package alert delivers completion alerts. Like the original app's looping
// completion sound, an alert repeats until the user acknowledges it.
package alert

import (
	"sync"
	"time"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
)

const repeatInterval = 10 * time.Second

// Alerter loops a completion notification until stopped.
type Alerter struct {
	app     fyne.App
	mu      sync.Mutex
	stopCh  chan struct{}
	enabled bool
}

// New creates an alerter posting through the given fyne app.
func New(app fyne.App) *Alerter {
	return &Alerter{app: app, enabled: true}
}

// SetEnabled toggles alert delivery. A disabled alerter drops PlayLoop
// calls silently; the controller never depends on delivery.
func (alerter *Alerter) SetEnabled(enabled bool) {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	alerter.enabled = enabled
}

// PlayLoop starts repeating the completion alert for the given kind,
// replacing any alert already looping.
func (alerter *Alerter) PlayLoop(kind model.Kind) {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()

	alerter.stopLocked()
	if !alerter.enabled {
		return
	}

	stopCh := make(chan struct{})
	alerter.stopCh = stopCh
	go alerter.loop(kind, stopCh)
}

// StopAll silences any looping alert.
func (alerter *Alerter) StopAll() {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	alerter.stopLocked()
}

// Playing reports whether an alert loop is active.
func (alerter *Alerter) Playing() bool {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	return alerter.stopCh != nil
}

func (alerter *Alerter) stopLocked() {
	if alerter.stopCh != nil {
		close(alerter.stopCh)
		alerter.stopCh = nil
	}
}

func (alerter *Alerter) loop(kind model.Kind, stopCh chan struct{}) {
	alerter.send(kind)

	ticker := time.NewTicker(repeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			alerter.send(kind)
		}
	}
}

func (alerter *Alerter) send(kind model.Kind) {
	title := "Rest complete!"
	body := "Ready for the next pomodoro?"
	if kind == model.KindWork {
		title = "Work complete!"
		body = "Time to rest."
	}
	alerter.app.SendNotification(fyne.NewNotification(title, body))
}
