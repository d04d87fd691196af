package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "Pomodoro"
	configFileName = "config.json"
)

// Manager handles loading and saving configuration
type Manager struct {
	configPath string
	settings   *Settings
}

// NewManager creates a new config manager
func NewManager() (*Manager, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigDirCreation, err)
	}

	m := &Manager{
		configPath: filepath.Join(configDir, configFileName),
	}

	// Load or create default settings
	if err := m.Load(); err != nil {
		if os.IsNotExist(err) {
			m.settings = DefaultSettings()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to save default settings: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
	}

	return m, nil
}

// Load reads the settings from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	// Parse JSON with custom unmarshaling for durations
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	settings := DefaultSettings()

	// Duration fields are stored as minutes/seconds in JSON
	if v, ok := raw["focus_duration_minutes"].(float64); ok {
		settings.FocusDuration = minutesToDuration(v)
	}
	if v, ok := raw["break_duration_minutes"].(float64); ok {
		settings.BreakDuration = minutesToDuration(v)
	}
	if v, ok := raw["long_break_duration_minutes"].(float64); ok {
		settings.LongBreakDuration = minutesToDuration(v)
	}
	if v, ok := raw["total_sessions"].(float64); ok {
		settings.TotalSessions = int(v)
	}
	if v, ok := raw["max_session_time_minutes"].(float64); ok {
		settings.MaxSessionTime = minutesToDuration(v)
	}
	if v, ok := raw["inactivity_threshold_seconds"].(float64); ok {
		settings.InactivityThreshold = secondsToDuration(v)
	}
	if v, ok := raw["smart_pause"].(bool); ok {
		settings.SmartPause = v
	}
	if v, ok := raw["auto_start_next"].(bool); ok {
		settings.AutoStartNext = v
	}
	if v, ok := raw["continuous_sessions"].(bool); ok {
		settings.ContinuousSessions = v
	}
	if v, ok := raw["notifications"].(bool); ok {
		settings.Notifications = v
	}
	if v, ok := raw["debug_mode"].(bool); ok {
		settings.DebugMode = v
	}
	if v, ok := raw["first_run"].(bool); ok {
		settings.FirstRun = v
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	m.settings = settings
	return nil
}

// Save writes the settings to disk
func (m *Manager) Save() error {
	if m.settings == nil {
		m.settings = DefaultSettings()
	}

	if err := m.settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// Convert to JSON-friendly format
	data := map[string]interface{}{
		"focus_duration_minutes":       durationToMinutes(m.settings.FocusDuration),
		"break_duration_minutes":       durationToMinutes(m.settings.BreakDuration),
		"long_break_duration_minutes":  durationToMinutes(m.settings.LongBreakDuration),
		"total_sessions":               m.settings.TotalSessions,
		"max_session_time_minutes":     durationToMinutes(m.settings.MaxSessionTime),
		"inactivity_threshold_seconds": durationToSeconds(m.settings.InactivityThreshold),
		"smart_pause":                  m.settings.SmartPause,
		"auto_start_next":              m.settings.AutoStartNext,
		"continuous_sessions":          m.settings.ContinuousSessions,
		"notifications":                m.settings.Notifications,
		"debug_mode":                   m.settings.DebugMode,
		"first_run":                    m.settings.FirstRun,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(m.configPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current settings
func (m *Manager) Get() *Settings {
	if m.settings == nil {
		m.settings = DefaultSettings()
	}
	return m.settings
}

// Update updates the settings and saves them
func (m *Manager) Update(settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = settings
	return m.Save()
}

// getConfigDir returns the application's config directory
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// Helper functions for duration conversion
func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func durationToMinutes(d time.Duration) float64 {
	return d.Minutes()
}

func durationToSeconds(d time.Duration) float64 {
	return d.Seconds()
}
