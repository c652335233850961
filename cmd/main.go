package main

import (
	"context"
	"log"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/about"
	"pomodoro/internal/ui/animation"
	"pomodoro/internal/ui/applet"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "Pomodoro"
	appID   = "io.github.pomodoro"
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings := preferences.DefaultSettings()
	store, err := storage.NewStore(appName)
	if err != nil {
		log.Printf("settings: %v", err)
	} else if settings, err = store.Load(); err != nil {
		log.Printf("settings: %v, using defaults", err)
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconWorking))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	player := audio.NewPlayer()
	alarm := audio.NewAlarm(player)
	dbusSender := notify.NewDBusSender(appName)
	appSender := notify.NewAppSender(fyneApp, fyne.Do)
	dispatcher := notify.NewDispatcher()
	dispatcher.SetIcon(appID)

	applySettings := func(settings preferences.Settings) {
		alarm.Configure(settings.SoundEnabled, settings.SoundFile, settings.SoundVolume)
		dispatcher.SetEnabled(settings.NotificationsEnabled)
		dispatcher.SetSenders(sendersFor(settings.NotificationBackend, dbusSender, appSender)...)
	}
	applySettings(settings)

	scheduler := timer.NewTickerScheduler(fyne.Do)

	var engine *timer.Engine
	activate := func() {
		engine.Activate()
	}

	appletWindow := applet.New(fyneApp, phaseIcon(timer.PhaseStopped), activate)
	flasher := animation.New(animation.DefaultConfig(), func(resource fyne.Resource) {
		fyne.Do(func() {
			appletWindow.SetIcon(resource)
		})
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		autostartChanged := updated.Autostart != settings.Autostart
		settings = updated
		applySettings(settings)
		if store != nil {
			if err := store.Save(settings); err != nil {
				log.Printf("settings: %v", err)
			}
		}
		if autostartChanged {
			if err := platform.ApplyAutostart(platform.NewService(), appName, settings.Autostart); err != nil {
				log.Printf("autostart: %v", err)
			}
		}
	}, func(preview preferences.Settings) {
		sample := audio.NewAlarm(player)
		sample.Configure(true, preview.SoundFile, preview.SoundVolume)
		sample.Play(timer.CueTimerExpired)
	})

	aboutWindow := about.New(fyneApp, about.DefaultInfo(), resources.MustIcon(resources.IconWorking))

	quit := func() {
		flasher.Stop()
		engine.Close()
		scheduler.Close()
		player.Stop()
		if err := dbusSender.Close(); err != nil {
			log.Printf("notify: %v", err)
		}
		fyneApp.Quit()
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnActivate: activate,
		OnShowApplet: func() {
			appletWindow.Show()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnAbout: func() {
			aboutWindow.Show()
		},
		OnQuit: quit,
	})
	desktopApp.SetSystemTrayIcon(phaseIcon(timer.PhaseStopped))

	engine = timer.New(model.DefaultTimerConfig(), timer.Dependencies{
		Clock:     timer.SystemClock{},
		Scheduler: scheduler,
		Display:   displays{trayManager, appletWindow},
		Notifier:  dispatcher,
		Sound:     alarm,
	})
	fyneApp.Lifecycle().SetOnStopped(func() {
		engine.Close()
		scheduler.Close()
	})

	events := engine.Subscribe(8)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handlePhaseChange(event, desktopApp, trayManager, appletWindow, flasher)
			})
		}
	}()

	fyneApp.Lifecycle().SetOnStarted(func() {
		trayManager.SetText(engine.Label())
		appletWindow.SetText(engine.Label())
		if settings.ShowAppletWindow {
			appletWindow.Show()
		}
	})

	fyneApp.Run()
}

func handlePhaseChange(event timer.Event, desktopApp desktop.App, trayManager *tray.Manager, appletWindow *applet.Window, flasher *animation.Engine) {
	icon := phaseIcon(event.Phase)
	trayManager.SetPhase(event.Phase)
	desktopApp.SetSystemTrayIcon(icon)

	if event.Cause == timer.CauseExpired {
		flasher.Flash(context.Background(), phaseIcon(event.Previous), icon)
		return
	}
	// Stop queues the flash's final icon, so queue ours behind it.
	flasher.Stop()
	fyne.Do(func() {
		appletWindow.SetIcon(icon)
	})
}

func phaseIcon(phase timer.Phase) fyne.Resource {
	switch phase {
	case timer.PhaseWorking:
		return resources.MustIcon(resources.IconWorking)
	case timer.PhaseOnBreak:
		return resources.MustIcon(resources.IconBreak)
	default:
		return resources.MustIcon(resources.IconIdle)
	}
}

func sendersFor(backend string, dbusSender, appSender notify.Sender) []notify.Sender {
	if backend == preferences.BackendApp {
		return []notify.Sender{appSender}
	}
	return []notify.Sender{dbusSender, appSender}
}

// displays fans the timer label out to every surface showing it.
type displays []timer.Display

func (targets displays) SetText(text string) {
	for _, target := range targets {
		target.SetText(text)
	}
}
