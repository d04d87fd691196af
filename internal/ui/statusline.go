package ui

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/siegfried/pomodoro/internal/timer"
)

// Presenter receives a display update after every engine mutation.
type Presenter interface {
	UpdateDisplay(snap timer.Snapshot)
}

// Indicator receives the compact external summary, e.g. for a tray icon.
type Indicator interface {
	UpdateIndicator(running bool, mode timer.Mode, sessionIndex, totalSessions int)
}

// Clock formats a countdown as MM:SS. Negative (overtime) values get a
// leading plus and count upward.
func Clock(remaining time.Duration) string {
	prefix := ""
	if remaining < 0 {
		prefix = "+"
		remaining = -remaining
	}
	// Round up so the display starts at the full duration, not one below.
	totalSeconds := int((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%s%02d:%02d", prefix, totalSeconds/60, totalSeconds%60)
}

// StatusTitle returns the short status text shown next to the clock.
func StatusTitle(snap timer.Snapshot) string {
	switch snap.State {
	case timer.StateRunning:
		return fmt.Sprintf("%s %s", modeSymbol(snap.Mode), Clock(snap.Remaining))
	case timer.StatePausedManual:
		return "⏸ Paused"
	case timer.StatePausedAuto:
		return "💤 Auto-paused"
	default:
		return fmt.Sprintf("%s %s", modeSymbol(snap.Mode), Clock(snap.Remaining))
	}
}

// ProgressDots renders the session rotation as filled and empty dots,
// like the progress row under the timer display.
func ProgressDots(sessionIndex, totalSessions int) string {
	if totalSessions <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 1; i <= totalSessions; i++ {
		if i < sessionIndex {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

// SummaryLine returns a one-line daily summary.
func SummaryLine(snap timer.Snapshot, now time.Time) string {
	if snap.TotalFocus <= 0 {
		return fmt.Sprintf("Session %d of %d — no focus time yet today", snap.SessionIndex, snap.TotalSessions)
	}
	focused := humanize.RelTime(now.Add(-snap.TotalFocus), now, "", "")
	return fmt.Sprintf("Session %d of %d — focused %s today", snap.SessionIndex, snap.TotalSessions, strings.TrimSpace(focused))
}

func modeSymbol(mode timer.Mode) string {
	if mode.IsBreak() {
		return "☕"
	}
	return "🍅"
}

// LogPresenter is the headless presentation layer: it writes status
// lines to the process log, deduplicated so per-tick display updates do
// not flood it.
type LogPresenter struct {
	mu       sync.Mutex
	lastLine string
}

// NewLogPresenter creates a LogPresenter.
func NewLogPresenter() *LogPresenter {
	return &LogPresenter{}
}

// UpdateDisplay logs the status line whenever it changes.
func (p *LogPresenter) UpdateDisplay(snap timer.Snapshot) {
	line := fmt.Sprintf("%s  %s  %s",
		StatusTitle(snap),
		ProgressDots(snap.SessionIndex, snap.TotalSessions),
		snap.State.String())

	p.mu.Lock()
	changed := line != p.lastLine
	p.lastLine = line
	p.mu.Unlock()

	if changed {
		log.Println(line)
	}
}

// UpdateIndicator logs the compact tray-style summary.
func (p *LogPresenter) UpdateIndicator(running bool, mode timer.Mode, sessionIndex, totalSessions int) {
	state := "stopped"
	if running {
		state = "running"
	}
	log.Printf("Indicator: %s %s (session %d/%d)", mode, state, sessionIndex, totalSessions)
}
