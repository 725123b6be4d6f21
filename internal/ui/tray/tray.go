package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnNewPomodoro  func()
	OnMarkComplete func()
	OnStopAlert    func()
	OnHistory      func()
	OnPreferences  func()
	OnQuit         func()
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	newItem      *fyne.MenuItem
	completeItem *fyne.MenuItem
	stopItem     *fyne.MenuItem
	callbacks    Callbacks
	running      bool
	alerting     bool
	statusLabel  string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true

	manager.newItem = fyne.NewMenuItem("New pomodoro", func() {
		if manager.callbacks.OnNewPomodoro != nil {
			manager.callbacks.OnNewPomodoro()
		}
	})

	manager.completeItem = fyne.NewMenuItem("Mark complete", func() {
		if manager.callbacks.OnMarkComplete != nil {
			manager.callbacks.OnMarkComplete()
		}
	})
	manager.completeItem.Disabled = true

	manager.stopItem = fyne.NewMenuItem("Stop alert", func() {
		if manager.callbacks.OnStopAlert != nil {
			manager.callbacks.OnStopAlert()
		}
	})
	manager.stopItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetRunning toggles the items that only make sense with an active interval.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	manager.newItem.Disabled = running
	manager.completeItem.Disabled = !running
	manager.refreshMenu()
}

// SetAlerting toggles the stop-alert item.
func (manager *Manager) SetAlerting(alerting bool) {
	manager.alerting = alerting
	manager.stopItem.Disabled = !alerting
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro",
		manager.statusItem,
		manager.newItem,
		manager.completeItem,
		manager.stopItem,
		fyne.NewMenuItem("History", func() {
			if manager.callbacks.OnHistory != nil {
				manager.callbacks.OnHistory()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
