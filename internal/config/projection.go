package config

import (
	"time"

	"github.com/siegfried/pomodoro/internal/timer"
)

// debugDuration replaces all session durations when debug mode is on,
// so a full cycle can be exercised by hand in seconds.
const debugDuration = 3 * time.Second

// Project maps user settings onto engine parameters. Pure function: no
// side effects beyond the returned value. The debug override is applied
// last, after all other fields are mapped.
func Project(settings *Settings) timer.Parameters {
	params := timer.Parameters{
		FocusDuration:       settings.FocusDuration,
		BreakDuration:       settings.BreakDuration,
		LongBreakDuration:   settings.LongBreakDuration,
		TotalSessions:       settings.TotalSessions,
		MaxSessionTime:      settings.MaxSessionTime,
		InactivityThreshold: settings.InactivityThreshold,
		AutoStartNext:       settings.AutoStartNext,
		AllowContinuous:     settings.ContinuousSessions,
		DebugMode:           settings.DebugMode,
	}

	if settings.DebugMode {
		params.FocusDuration = debugDuration
		params.BreakDuration = debugDuration
		params.LongBreakDuration = debugDuration
	}

	return params
}
