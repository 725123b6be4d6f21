package preferences

import (
	"fmt"
	"strconv"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	workMinutes   *widget.Entry
	restMinutes   *widget.Entry
	notifications *widget.Check
	autostart     *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	workMinutes := widget.NewEntry()
	restMinutes := widget.NewEntry()
	workMinutes.SetText(formatMinutes(settings.DefaultWorkMinutes))
	restMinutes.SetText(formatMinutes(settings.RestMinutes))

	notifications := widget.NewCheck("Show completion notifications", nil)
	notifications.SetChecked(settings.Notifications)

	autostart := widget.NewCheck("Launch at login", nil)
	autostart.SetChecked(settings.Autostart)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default pomodoro length"), workMinutes, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Rest length"), restMinutes, widget.NewLabel("min")),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifications,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(380, 280))

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		workMinutes:   workMinutes,
		restMinutes:   restMinutes,
		notifications: notifications,
		autostart:     autostart,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMinutes.SetText(formatMinutes(settings.DefaultWorkMinutes))
	prefs.restMinutes.SetText(formatMinutes(settings.RestMinutes))
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parseMinutes(prefs.workMinutes.Text); ok {
		settings.DefaultWorkMinutes = minutes
	}
	if minutes, ok := parseMinutes(prefs.restMinutes.Text); ok {
		settings.RestMinutes = minutes
	}
	settings.Notifications = prefs.notifications.Checked
	settings.Autostart = prefs.autostart.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func formatMinutes(minutes float64) string {
	return fmt.Sprintf("%g", minutes)
}

func parseMinutes(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < model.MinDurationMinutes || parsed > model.MaxDurationMinutes {
		return 0, false
	}
	return parsed, true
}
