package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"

	"pomodoro/internal/core/timer"
)

const menuTitle = "Pomodoro"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnActivate    func()
	OnShowApplet  func()
	OnPreferences func()
	OnAbout       func()
	OnQuit        func()
}

// Manager handles system tray state. It is the applet's display in the
// panel and one of its input sources.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	activateItem *fyne.MenuItem
	appletItem   *fyne.MenuItem
	prefsItem    *fyne.MenuItem
	aboutItem    *fyne.MenuItem
	quitItem     *fyne.MenuItem
	menu         *fyne.Menu
	callbacks    Callbacks
	phase        timer.Phase
	status       string
	setTitle     func(string)
}

// New creates a tray manager with the provided callbacks. A nil app builds
// the menu without installing it.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		phase:     timer.PhaseStopped,
		setTitle:  systrayTitle,
	}

	manager.statusItem = fyne.NewMenuItem(timer.IdleLabel, nil)
	manager.statusItem.Disabled = true

	manager.activateItem = fyne.NewMenuItem(ActivateLabel(timer.PhaseStopped), func() {
		if manager.callbacks.OnActivate != nil {
			manager.callbacks.OnActivate()
		}
	})

	manager.appletItem = fyne.NewMenuItem("Show applet", func() {
		if manager.callbacks.OnShowApplet != nil {
			manager.callbacks.OnShowApplet()
		}
	})

	manager.prefsItem = fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})

	manager.aboutItem = fyne.NewMenuItem("About", func() {
		if manager.callbacks.OnAbout != nil {
			manager.callbacks.OnAbout()
		}
	})

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.activateItem,
		manager.appletItem,
		manager.prefsItem,
		manager.aboutItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	)
	if app != nil {
		app.SetSystemTrayMenu(manager.menu)
	}
	return manager
}

// SetText implements timer.Display. Repeated text is ignored.
func (manager *Manager) SetText(text string) {
	if text == manager.status {
		return
	}
	manager.status = text
	manager.statusItem.Label = text
	if manager.app != nil {
		manager.setTitle(text)
	}
	manager.refreshMenu()
}

// SetPhase relabels the activate item for the next transition.
func (manager *Manager) SetPhase(phase timer.Phase) {
	if phase == manager.phase {
		return
	}
	manager.phase = phase
	manager.activateItem.Label = ActivateLabel(phase)
	manager.refreshMenu()
}

// Menu returns the installed tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// ActivateLabel names what clicking does in the given phase.
func ActivateLabel(phase timer.Phase) string {
	switch phase {
	case timer.PhaseWorking:
		return "Abort pomodoro"
	case timer.PhaseOnBreak:
		return "Stop break"
	default:
		return "Start pomodoro"
	}
}

func systrayTitle(text string) {
	systray.SetTitle(text)
	systray.SetTooltip(text)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.menu.Refresh()
	}
}
