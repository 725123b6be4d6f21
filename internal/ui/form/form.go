package form

import (
	"strconv"

	"pomodoro/internal/core/interval"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window is the new-pomodoro form: a task name, a duration in minutes and
// inline validation feedback.
type Window struct {
	window     fyne.Window
	name       *widget.Entry
	duration   *widget.Entry
	errorLabel *widget.Label
	onStart    func(name string, minutes float64) error
}

// New creates the form window. onStart receives validated-by-caller input
// and returns the error to surface, if any.
func New(app fyne.App, defaultMinutes float64, onStart func(name string, minutes float64) error) *Window {
	window := app.NewWindow("New Pomodoro")

	name := widget.NewEntry()
	name.SetPlaceHolder("What are you working on?")

	duration := widget.NewEntry()
	duration.SetText(strconv.FormatFloat(defaultMinutes, 'g', -1, 64))

	errorLabel := widget.NewLabel("")
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	form := &Window{
		window:     window,
		name:       name,
		duration:   duration,
		errorLabel: errorLabel,
		onStart:    onStart,
	}

	startButton := widget.NewButton("Start", form.handleStart)
	name.OnSubmitted = func(string) { form.handleStart() }
	duration.OnSubmitted = func(string) { form.handleStart() }

	content := container.NewVBox(
		widget.NewLabel("Task name"),
		name,
		widget.NewLabel("Duration (minutes)"),
		duration,
		errorLabel,
		startButton,
	)
	window.SetContent(content)
	window.Resize(fyne.NewSize(320, 240))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return form
}

// Show displays the form with a fresh default duration.
func (form *Window) Show(defaultMinutes float64) {
	form.name.SetText("")
	form.duration.SetText(strconv.FormatFloat(defaultMinutes, 'g', -1, 64))
	form.errorLabel.Hide()
	form.window.Show()
	form.window.RequestFocus()
	form.window.Canvas().Focus(form.name)
}

func (form *Window) handleStart() {
	minutes, err := strconv.ParseFloat(form.duration.Text, 64)
	if err != nil {
		form.showError("duration must be a number")
		return
	}
	if validationErr := interval.ValidateNewPomodoro(form.name.Text, minutes); validationErr != nil {
		form.showError(validationErr.Reason)
		return
	}

	if form.onStart != nil {
		if startErr := form.onStart(form.name.Text, minutes); startErr != nil {
			form.showError(startErr.Error())
			return
		}
	}
	form.window.Hide()
}

func (form *Window) showError(reason string) {
	form.errorLabel.SetText(reason)
	form.errorLabel.Show()
}
