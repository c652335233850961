package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomodoro/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

// Pointer fields distinguish a missing key from an explicit false or zero.
type yamlSettings struct {
	NotificationsEnabled *bool    `yaml:"notifications_enabled,omitempty"`
	NotificationBackend  string   `yaml:"notification_backend,omitempty"`
	SoundEnabled         *bool    `yaml:"sound_enabled,omitempty"`
	SoundFile            string   `yaml:"sound_file,omitempty"`
	SoundVolume          *float64 `yaml:"sound_volume,omitempty"`
	ShowAppletWindow     *bool    `yaml:"show_applet_window,omitempty"`
	Autostart            *bool    `yaml:"autostart,omitempty"`
}

// Store reads and writes preferences under a config directory.
type Store struct {
	path string
}

// NewStore returns a store for <UserConfigDir>/<appName>/settings.yaml.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(configDir, appName)), nil
}

// NewStoreAt returns a store rooted at dir.
func NewStoreAt(dir string) *Store {
	return &Store{path: filepath.Join(dir, settingsFileName)}
}

// Path returns the settings file location.
func (store *Store) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func (store *Store) Load() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalized(), nil
}

// Save writes user preferences to YAML.
func (store *Store) Save(settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings = settings.Normalized()
	fileData := yamlSettings{
		NotificationsEnabled: &settings.NotificationsEnabled,
		NotificationBackend:  settings.NotificationBackend,
		SoundEnabled:         &settings.SoundEnabled,
		SoundFile:            settings.SoundFile,
		SoundVolume:          &settings.SoundVolume,
		ShowAppletWindow:     &settings.ShowAppletWindow,
		Autostart:            &settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	// Replace the file atomically.
	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.NotificationBackend != "" {
		settings.NotificationBackend = fileData.NotificationBackend
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	settings.SoundFile = fileData.SoundFile
	if fileData.SoundVolume != nil && *fileData.SoundVolume >= 0 && *fileData.SoundVolume <= 1 {
		settings.SoundVolume = *fileData.SoundVolume
	}
	if fileData.ShowAppletWindow != nil {
		settings.ShowAppletWindow = *fileData.ShowAppletWindow
	}
	if fileData.Autostart != nil {
		settings.Autostart = *fileData.Autostart
	}
}
