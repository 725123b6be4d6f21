package timer

import (
	"image/color"

	"pomodoro/internal/core/interval"
	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines timer window action handlers.
type Callbacks struct {
	OnMarkComplete func()
	OnStopAlert    func()
}

// Window shows the running countdown.
type Window struct {
	window         fyne.Window
	nameLabel      *canvas.Text
	kindLabel      *canvas.Text
	clockLabel     *canvas.Text
	completeButton *widget.Button
	stopButton     *widget.Button
}

// New creates the countdown window.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Pomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	nameLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	nameLabel.Alignment = fyne.TextAlignCenter
	nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	nameLabel.TextSize = 20

	kindLabel := canvas.NewText("", color.NRGBA{R: 180, G: 180, B: 180, A: 255})
	kindLabel.Alignment = fyne.TextAlignCenter
	kindLabel.TextSize = 13

	clockLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 96, B: 66, A: 255})
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 48

	completeButton := widget.NewButton("Mark complete", func() {
		if callbacks.OnMarkComplete != nil {
			callbacks.OnMarkComplete()
		}
	})
	stopButton := widget.NewButton("Stop alert", func() {
		if callbacks.OnStopAlert != nil {
			callbacks.OnStopAlert()
		}
	})
	stopButton.Hide()

	content := container.NewVBox(
		nameLabel,
		kindLabel,
		clockLabel,
		completeButton,
		stopButton,
	)
	window.SetContent(content)
	window.Resize(fyne.NewSize(300, 260))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return &Window{
		window:         window,
		nameLabel:      nameLabel,
		kindLabel:      kindLabel,
		clockLabel:     clockLabel,
		completeButton: completeButton,
		stopButton:     stopButton,
	}
}

// Show displays the countdown for the given entry.
func (win *Window) Show(entry model.Entry, remainingSeconds int) {
	win.nameLabel.Text = entry.Name
	if entry.Kind == model.KindRest {
		win.kindLabel.Text = "resting"
	} else {
		win.kindLabel.Text = "focusing"
	}
	win.clockLabel.Text = interval.FormatClock(remainingSeconds)
	win.nameLabel.Refresh()
	win.kindLabel.Refresh()
	win.clockLabel.Refresh()
	win.window.Show()
}

// SetRemaining updates the countdown display.
func (win *Window) SetRemaining(remainingSeconds int) {
	win.clockLabel.Text = interval.FormatClock(remainingSeconds)
	win.clockLabel.Refresh()
}

// SetAlerting toggles the stop-alert button.
func (win *Window) SetAlerting(alerting bool) {
	if alerting {
		win.stopButton.Show()
	} else {
		win.stopButton.Hide()
	}
}

// Hide conceals the window.
func (win *Window) Hide() {
	win.window.Hide()
}
