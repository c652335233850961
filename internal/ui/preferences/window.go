package preferences

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var backendLabels = map[string]string{
	BackendAuto: "Desktop (D-Bus), then built-in",
	BackendApp:  "Built-in only",
}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	onTestSound   func(Settings)
	notifications *widget.Check
	backend       *widget.Select
	sound         *widget.Check
	soundFile     *widget.Entry
	volume        *widget.Slider
	volumeLabel   *widget.Label
	appletWindow  *widget.Check
	autostart     *widget.Check
}

// New creates a preferences window. onTestSound receives the unsaved form
// values so the user can preview the alarm.
func New(app fyne.App, settings Settings, onSave func(Settings), onTestSound func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Preferences")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		onTestSound:   onTestSound,
		notifications: widget.NewCheck("Show desktop notifications", nil),
		backend:       widget.NewSelect([]string{backendLabels[BackendAuto], backendLabels[BackendApp]}, nil),
		sound:         widget.NewCheck("Play a sound when a period ends", nil),
		soundFile:     widget.NewEntry(),
		volume:        widget.NewSlider(0, 1),
		volumeLabel:   widget.NewLabel(""),
		appletWindow:  widget.NewCheck("Show the applet window at startup", nil),
		autostart:     widget.NewCheck("Start Pomodoro at login", nil),
	}

	prefs.soundFile.SetPlaceHolder("Built-in chime (or path to a .wav file)")
	prefs.volume.Step = 0.05
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeLabel.SetText(formatVolume(value))
	}
	prefs.notifications.OnChanged = func(enabled bool) {
		if enabled {
			prefs.backend.Enable()
		} else {
			prefs.backend.Disable()
		}
	}

	testButton := widget.NewButton("Test sound", func() {
		if prefs.onTestSound != nil {
			prefs.onTestSound(prefs.collect())
		}
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		container.NewHBox(widget.NewLabel("Deliver via"), prefs.backend),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sound,
		prefs.soundFile,
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), prefs.volumeLabel, prefs.volume),
		testButton,
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.appletWindow,
		prefs.autostart,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 380))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	settings = settings.Normalized()
	prefs.settings = settings
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.backend.SetSelected(backendLabels[settings.NotificationBackend])
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.soundFile.SetText(settings.SoundFile)
	prefs.volume.SetValue(settings.SoundVolume)
	prefs.volumeLabel.SetText(formatVolume(settings.SoundVolume))
	prefs.appletWindow.SetChecked(settings.ShowAppletWindow)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings
	settings.NotificationsEnabled = prefs.notifications.Checked
	settings.NotificationBackend = backendFromLabel(prefs.backend.Selected)
	settings.SoundEnabled = prefs.sound.Checked
	settings.SoundFile = strings.TrimSpace(prefs.soundFile.Text)
	settings.SoundVolume = prefs.volume.Value
	settings.ShowAppletWindow = prefs.appletWindow.Checked
	settings.Autostart = prefs.autostart.Checked
	return settings.Normalized()
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

func backendFromLabel(label string) string {
	for backend, candidate := range backendLabels {
		if candidate == label {
			return backend
		}
	}
	return BackendAuto
}

func formatVolume(value float64) string {
	return fmt.Sprintf("%3d%%", int(value*100+0.5))
}
