package preferences

// Notification backends.
const (
	BackendAuto = "auto" // D-Bus, falling back to the fyne app
	BackendApp  = "app"
)

// Settings defines editable user preferences. Interval lengths are fixed and
// intentionally absent.
type Settings struct {
	NotificationsEnabled bool
	NotificationBackend  string
	SoundEnabled         bool
	SoundFile            string
	SoundVolume          float64
	ShowAppletWindow     bool
	Autostart            bool
}

// DefaultSettings returns default settings for Pomodoro.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		NotificationBackend:  BackendAuto,
		SoundEnabled:         true,
		SoundVolume:          1,
		ShowAppletWindow:     true,
		Autostart:            false,
	}
}

// Normalized replaces invalid values with defaults.
func (settings Settings) Normalized() Settings {
	defaults := DefaultSettings()
	if !validBackend(settings.NotificationBackend) {
		settings.NotificationBackend = defaults.NotificationBackend
	}
	if settings.SoundVolume < 0 || settings.SoundVolume > 1 {
		settings.SoundVolume = defaults.SoundVolume
	}
	return settings
}

func validBackend(backend string) bool {
	return backend == BackendAuto || backend == BackendApp
}
