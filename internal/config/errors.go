package config

import "errors"

var (
	// ErrInvalidFocusDuration is returned when the focus duration is less than 1 minute
	ErrInvalidFocusDuration = errors.New("focus duration must be at least 1 minute")

	// ErrInvalidBreakDuration is returned when a break duration is less than 1 second
	ErrInvalidBreakDuration = errors.New("break duration must be at least 1 second")

	// ErrInvalidTotalSessions is returned when the session rotation length is less than 1
	ErrInvalidTotalSessions = errors.New("total sessions must be at least 1")

	// ErrInvalidInactivityThreshold is returned when the inactivity threshold is less than 5 seconds
	ErrInvalidInactivityThreshold = errors.New("inactivity threshold must be at least 5 seconds")

	// ErrConfigDirCreation is returned when the config directory cannot be created
	ErrConfigDirCreation = errors.New("failed to create config directory")
)
