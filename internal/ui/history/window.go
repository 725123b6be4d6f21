package history

import (
	"fmt"
	"time"

	"pomodoro/internal/core/interval"
	"pomodoro/internal/core/model"
	"pomodoro/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window browses the entry history by day and by month. It only reads the
// store; navigation never touches the state machine.
type Window struct {
	window    fyne.Window
	store     *storage.EntryStore
	current   time.Time
	showMonth bool
	header    *widget.Label
	body      *fyne.Container
	toggle    *widget.Button
}

// New creates the history window.
func New(app fyne.App, store *storage.EntryStore) *Window {
	win := &Window{
		window:  app.NewWindow("History"),
		store:   store,
		current: time.Now(),
		header:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		body:    container.NewVBox(),
	}

	prev := widget.NewButton("<", func() { win.step(-1) })
	next := widget.NewButton(">", func() { win.step(1) })
	today := widget.NewButton("Today", func() {
		win.current = time.Now()
		win.Refresh()
	})
	win.toggle = widget.NewButton("Month", func() {
		win.showMonth = !win.showMonth
		win.Refresh()
	})

	nav := container.NewHBox(prev, layout.NewSpacer(), today, win.toggle, layout.NewSpacer(), next)
	content := container.NewBorder(container.NewVBox(nav, win.header), nil, nil, nil, container.NewVScroll(win.body))
	win.window.SetContent(content)
	win.window.Resize(fyne.NewSize(360, 420))
	win.window.SetCloseIntercept(func() {
		win.window.Hide()
	})

	return win
}

// Show refreshes and displays the window.
func (win *Window) Show() {
	win.Refresh()
	win.window.Show()
	win.window.RequestFocus()
}

// Refresh rebuilds the current view from the store.
func (win *Window) Refresh() {
	win.body.Objects = nil
	if win.showMonth {
		win.toggle.SetText("Day")
		win.header.SetText(win.current.Format("January 2006"))
		win.buildMonth()
	} else {
		win.toggle.SetText("Month")
		win.header.SetText(win.current.Format("Monday, January 2, 2006"))
		win.buildDay()
	}
	win.body.Refresh()
}

func (win *Window) step(direction int) {
	if win.showMonth {
		win.current = win.current.AddDate(0, direction, 0)
	} else {
		win.current = win.current.AddDate(0, 0, direction)
	}
	win.Refresh()
}

func (win *Window) buildDay() {
	entries := win.store.ByDate(interval.DateKey(win.current))
	if len(entries) == 0 {
		win.body.Add(widget.NewLabel("No entries for this day."))
		return
	}

	for _, entry := range entries {
		status := "…"
		if entry.Completed {
			status = "✓"
		}
		row := fmt.Sprintf("%s  %s  %s  %s",
			entry.Started().Format("15:04"),
			status,
			entry.Name,
			formatDuration(entry.DurationMinutes),
		)
		label := widget.NewLabel(row)
		if entry.Kind == model.KindRest {
			label.TextStyle = fyne.TextStyle{Italic: true}
		}
		win.body.Add(label)
	}
}

func (win *Window) buildMonth() {
	year, month := win.current.Year(), win.current.Month()
	calendar := interval.MonthCalendar(year, month)
	summary := win.store.MonthSummary(year, month)

	grid := container.NewGridWithColumns(7)
	for _, weekday := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		grid.Add(widget.NewLabelWithStyle(weekday, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	for i := 0; i < int(calendar.FirstWeekday); i++ {
		grid.Add(widget.NewLabel(""))
	}
	for day := 1; day <= calendar.Days; day++ {
		key := interval.DateKey(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
		cell := fmt.Sprintf("%d", day)
		if count := summary[key]; count > 0 {
			cell = fmt.Sprintf("%d\n●%d", day, count)
		}
		grid.Add(widget.NewLabelWithStyle(cell, fyne.TextAlignCenter, fyne.TextStyle{}))
	}
	win.body.Add(grid)
}

func formatDuration(minutes float64) string {
	return fmt.Sprintf("%g min", minutes)
}
