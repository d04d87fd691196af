package timer

import "time"

// Mode represents the kind of session currently on the clock
type Mode int

const (
	// ModeFocus is the primary work interval
	ModeFocus Mode = iota
	// ModeBreak is the short rest between focus sessions
	ModeBreak
	// ModeLongBreak is the extended rest after every fourth focus session
	ModeLongBreak
)

// String returns a human-readable string for the mode
func (m Mode) String() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeBreak:
		return "Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak reports whether the mode is a rest interval
func (m Mode) IsBreak() bool {
	return m == ModeBreak || m == ModeLongBreak
}

// RunState represents the current run state of the engine
type RunState int

const (
	// StateIdle means the countdown is not running and not paused
	StateIdle RunState = iota
	// StateRunning means the countdown is actively running
	StateRunning
	// StatePausedManual means the user manually paused the countdown
	StatePausedManual
	// StatePausedAuto means the countdown was paused by the inactivity monitor
	StatePausedAuto
)

// String returns a human-readable string for the run state
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StatePausedManual:
		return "Paused"
	case StatePausedAuto:
		return "Paused (Idle)"
	default:
		return "Unknown"
	}
}

// Parameters holds the engine's runtime configuration, produced by the
// settings projection in the config package
type Parameters struct {
	FocusDuration       time.Duration
	BreakDuration       time.Duration
	LongBreakDuration   time.Duration
	TotalSessions       int
	MaxSessionTime      time.Duration
	InactivityThreshold time.Duration
	AutoStartNext       bool
	AllowContinuous     bool
	DebugMode           bool
}

// DurationFor returns the configured duration for the given mode
func (p Parameters) DurationFor(mode Mode) time.Duration {
	switch mode {
	case ModeBreak:
		return p.BreakDuration
	case ModeLongBreak:
		return p.LongBreakDuration
	default:
		return p.FocusDuration
	}
}

// Counters holds the daily aggregate counters owned by the engine
type Counters struct {
	CompletedCount int
	SessionIndex   int // 1-based position in the session rotation
	TotalFocus     time.Duration
}

// Completion describes a finished or skipped focus session
type Completion struct {
	Duration  time.Duration
	StartedAt time.Time // zero if no start was recorded
	EndedAt   time.Time
	Skipped   bool
}

// Snapshot is an immutable view of the engine state, handed to observers
// after every mutation
type Snapshot struct {
	Mode           Mode
	State          RunState
	Remaining      time.Duration // negative while in overtime
	Overtime       bool
	CompletedCount int
	SessionIndex   int
	TotalSessions  int
	TotalFocus     time.Duration
}
