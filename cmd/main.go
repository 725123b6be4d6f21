package main

import (
	"log"
	"os"

	"pomodoro/internal/core/interval"
	"pomodoro/internal/core/lifecycle"
	"pomodoro/internal/core/model"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/alert"
	"pomodoro/internal/ui/form"
	"pomodoro/internal/ui/history"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/timer"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appName = "Pomodoro"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomodoro.app")
	fyneApp.SetIcon(resources.MustLogo("pomodoro.png"))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Pomodoro is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("load settings: %v", err)
	}

	entriesPath, err := storage.DefaultEntriesPath(appName)
	if err != nil {
		log.Printf("resolve data path: %v", err)
		return
	}
	store, err := storage.OpenEntryStore(entriesPath)
	if err != nil {
		log.Printf("open entry store: %v", err)
		return
	}

	controller := lifecycle.New(store, settings.ControllerConfig())

	alerter := alert.New(fyneApp)
	alerter.SetEnabled(settings.Notifications)
	controller.SetSounds(alerter)

	wakeTimer := platform.NewWakeTimer(func(model.Kind, string) {
		controller.Wake()
	})
	defer wakeTimer.Shutdown()
	controller.SetScheduler(wakeTimer)

	historyWindow := history.New(fyneApp, store)

	timerWindow := timer.New(fyneApp, timer.Callbacks{
		OnMarkComplete: func() {
			if err := controller.MarkComplete(); err != nil {
				log.Printf("mark complete: %v", err)
			}
		},
		OnStopAlert: func() {
			controller.StopSounds()
		},
	})

	formWindow := form.New(fyneApp, settings.DefaultWorkMinutes, func(name string, minutes float64) error {
		_, startErr := controller.StartWork(name, minutes)
		return startErr
	})

	platformService := platform.NewService()
	applyAutostart := func(enabled bool) {
		execPath, execErr := os.Executable()
		if execErr != nil {
			log.Printf("autostart: %v", execErr)
			return
		}
		if enabled {
			execErr = platformService.EnableAutostart(appName, execPath)
		} else {
			execErr = platformService.DisableAutostart(appName)
		}
		if execErr != nil {
			log.Printf("autostart: %v", execErr)
		}
	}

	var prefsWindow *preferences.Window
	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		controller.UpdateConfig(settings.ControllerConfig())
		alerter.SetEnabled(settings.Notifications)
		applyAutostart(settings.Autostart)
		if saveErr := storage.SaveSettings(appName, settings); saveErr != nil {
			log.Printf("save settings: %v", saveErr)
		}
	})

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnNewPomodoro: func() {
			formWindow.Show(settings.DefaultWorkMinutes)
		},
		OnMarkComplete: func() {
			if err := controller.MarkComplete(); err != nil {
				log.Printf("mark complete: %v", err)
			}
		},
		OnStopAlert: func() {
			controller.StopSounds()
		},
		OnHistory: func() {
			historyWindow.Show()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			controller.Stop()
			alerter.StopAll()
			fyneApp.Quit()
		},
	})

	events := controller.Subscribe(8)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				handleEvent(event, controller, timerWindow, historyWindow, trayManager)
			})
		}
	}()

	fyneApp.Lifecycle().SetOnEnteredForeground(func() {
		controller.Resume()
	})

	controller.Start()
	controller.Resume()

	fyneApp.Run()
}

func handleEvent(event lifecycle.Event, controller *lifecycle.Controller, timerWindow *timer.Window, historyWindow *history.Window, trayManager *tray.Manager) {
	alerting := controller.SoundPlaying()
	timerWindow.SetAlerting(alerting)
	trayManager.SetAlerting(alerting)

	switch event.Type {
	case lifecycle.EventStateChange:
		if event.State == lifecycle.StateIdle {
			timerWindow.Hide()
			trayManager.SetRunning(false)
			trayManager.SetStatus("idle")
		} else {
			timerWindow.Show(event.Entry, event.RemainingSeconds)
			trayManager.SetRunning(true)
			trayManager.SetStatus(statusLine(event))
		}
		historyWindow.Refresh()
	case lifecycle.EventProgress:
		timerWindow.SetRemaining(event.RemainingSeconds)
		trayManager.SetStatus(statusLine(event))
	case lifecycle.EventError:
		log.Printf("controller: %s", event.Message)
	}
}

func statusLine(event lifecycle.Event) string {
	clock := interval.FormatClock(event.RemainingSeconds)
	if event.State == lifecycle.StateRest {
		return "resting " + clock
	}
	return event.Entry.Name + " " + clock
}
