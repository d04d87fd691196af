package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("default settings must validate, got %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"short focus", func(s *Settings) { s.FocusDuration = 30 * time.Second }, ErrInvalidFocusDuration},
		{"zero break", func(s *Settings) { s.BreakDuration = 0 }, ErrInvalidBreakDuration},
		{"zero long break", func(s *Settings) { s.LongBreakDuration = 0 }, ErrInvalidBreakDuration},
		{"zero sessions", func(s *Settings) { s.TotalSessions = 0 }, ErrInvalidTotalSessions},
		{"tiny threshold", func(s *Settings) { s.InactivityThreshold = time.Second }, ErrInvalidInactivityThreshold},
	}
	for _, tc := range cases {
		s := DefaultSettings()
		tc.mutate(s)
		if err := s.Validate(); err != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	m := &Manager{configPath: filepath.Join(t.TempDir(), "config.json")}

	settings := DefaultSettings()
	settings.FocusDuration = 50 * time.Minute
	settings.TotalSessions = 8
	settings.SmartPause = true
	settings.DebugMode = true
	m.settings = settings

	if err := m.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := &Manager{configPath: m.configPath}
	if err := loaded.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got := loaded.Get()
	if got.FocusDuration != 50*time.Minute {
		t.Errorf("expected focus 50m, got %v", got.FocusDuration)
	}
	if got.TotalSessions != 8 {
		t.Errorf("expected 8 sessions, got %d", got.TotalSessions)
	}
	if !got.SmartPause || !got.DebugMode {
		t.Errorf("expected flags preserved, got %+v", got)
	}
}

func TestManagerLoadMissingFile(t *testing.T) {
	m := &Manager{configPath: filepath.Join(t.TempDir(), "config.json")}
	if err := m.Load(); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestManagerLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"focus_duration_minutes": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	m := &Manager{configPath: path}
	if err := m.Load(); err == nil {
		t.Error("expected validation error for zero focus duration")
	}
}

func TestProjectionMapsSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.FocusDuration = 30 * time.Minute
	settings.BreakDuration = 7 * time.Minute
	settings.LongBreakDuration = 20 * time.Minute
	settings.TotalSessions = 12
	settings.MaxSessionTime = 3 * time.Hour
	settings.InactivityThreshold = 45 * time.Second
	settings.AutoStartNext = false
	settings.ContinuousSessions = true

	params := Project(settings)

	if params.FocusDuration != 30*time.Minute {
		t.Errorf("focus: got %v", params.FocusDuration)
	}
	if params.BreakDuration != 7*time.Minute {
		t.Errorf("break: got %v", params.BreakDuration)
	}
	if params.LongBreakDuration != 20*time.Minute {
		t.Errorf("long break: got %v", params.LongBreakDuration)
	}
	if params.TotalSessions != 12 {
		t.Errorf("total sessions: got %d", params.TotalSessions)
	}
	if params.MaxSessionTime != 3*time.Hour {
		t.Errorf("max session: got %v", params.MaxSessionTime)
	}
	if params.InactivityThreshold != 45*time.Second {
		t.Errorf("threshold: got %v", params.InactivityThreshold)
	}
	if params.AutoStartNext {
		t.Error("expected autoStartNext false")
	}
	if !params.AllowContinuous {
		t.Error("expected allowContinuous true")
	}
}

func TestProjectionDebugOverrideAppliedLast(t *testing.T) {
	settings := DefaultSettings()
	settings.FocusDuration = 90 * time.Minute
	settings.DebugMode = true

	params := Project(settings)

	if params.FocusDuration != 3*time.Second {
		t.Errorf("expected debug focus 3s, got %v", params.FocusDuration)
	}
	if params.BreakDuration != 3*time.Second {
		t.Errorf("expected debug break 3s, got %v", params.BreakDuration)
	}
	if params.LongBreakDuration != 3*time.Second {
		t.Errorf("expected debug long break 3s, got %v", params.LongBreakDuration)
	}
	// Everything else is mapped normally.
	if !params.DebugMode {
		t.Error("expected debugMode carried through")
	}
	if params.TotalSessions != settings.TotalSessions {
		t.Errorf("expected totalSessions %d, got %d", settings.TotalSessions, params.TotalSessions)
	}
}
