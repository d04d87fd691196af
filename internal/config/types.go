package config

import "time"

// Settings holds all user configuration for the application
type Settings struct {
	FocusDuration       time.Duration `json:"focus_duration_minutes"`
	BreakDuration       time.Duration `json:"break_duration_minutes"`
	LongBreakDuration   time.Duration `json:"long_break_duration_minutes"`
	TotalSessions       int           `json:"total_sessions"`
	MaxSessionTime      time.Duration `json:"max_session_time_minutes"`
	InactivityThreshold time.Duration `json:"inactivity_threshold_seconds"`
	SmartPause          bool          `json:"smart_pause"`
	AutoStartNext       bool          `json:"auto_start_next"`
	ContinuousSessions  bool          `json:"continuous_sessions"`
	Notifications       bool          `json:"notifications"`
	DebugMode           bool          `json:"debug_mode"`
	FirstRun            bool          `json:"first_run"`
}

// DefaultSettings returns a new Settings with sensible defaults
func DefaultSettings() *Settings {
	return &Settings{
		FocusDuration:       25 * time.Minute,
		BreakDuration:       5 * time.Minute,
		LongBreakDuration:   15 * time.Minute,
		TotalSessions:       10,
		MaxSessionTime:      2 * time.Hour,
		InactivityThreshold: 60 * time.Second,
		SmartPause:          false,
		AutoStartNext:       true,
		ContinuousSessions:  false,
		Notifications:       true,
		DebugMode:           false,
		FirstRun:            true,
	}
}

// Validate checks if the settings values are valid
func (s *Settings) Validate() error {
	if s.FocusDuration < 1*time.Minute {
		return ErrInvalidFocusDuration
	}
	if s.BreakDuration < 1*time.Second || s.LongBreakDuration < 1*time.Second {
		return ErrInvalidBreakDuration
	}
	if s.TotalSessions < 1 {
		return ErrInvalidTotalSessions
	}
	if s.InactivityThreshold < 5*time.Second {
		return ErrInvalidInactivityThreshold
	}
	return nil
}
