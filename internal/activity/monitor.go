package activity

import (
	"sync"
	"time"

	"github.com/siegfried/pomodoro/internal/timer"
)

// Controller is the slice of the timer engine the monitor drives.
// AutoPause must tolerate being called when its conditions no longer
// hold.
type Controller interface {
	AutoPause()
	Start()
}

// Monitor implements smart pause: it arms a single-shot inactivity
// timeout while a focus session is running and auto-pauses the timer
// when it fires. Any activity signal cancels the pending timeout and
// resumes from auto-pause.
type Monitor struct {
	controller   Controller
	source       Source
	now          func() time.Time
	pollInterval time.Duration

	mu         sync.Mutex
	enabled    bool
	threshold  time.Duration
	armed      bool
	armedAt    time.Time
	autoPaused bool
	timeout    *time.Timer
	lastIdle   time.Duration

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
}

// NewMonitor creates a monitor over the given controller and activity
// source. A nil now falls back to time.Now.
func NewMonitor(controller Controller, source Source, now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		controller:   controller,
		source:       source,
		now:          now,
		pollInterval: time.Second,
	}
}

// Configure sets the enabled flag and inactivity threshold. Disabling
// while auto-paused resumes the timer.
func (m *Monitor) Configure(enabled bool, threshold time.Duration) {
	m.mu.Lock()
	m.enabled = enabled
	m.threshold = threshold
	resume := false
	if !enabled {
		m.disarmLocked()
		if m.autoPaused {
			m.autoPaused = false
			resume = true
		}
	}
	m.mu.Unlock()

	if resume {
		m.controller.Start()
	}
}

// HandleState tracks the engine's transitions: the timeout is armed
// exactly while smart pause is enabled, the mode is Focus and the
// countdown is running.
func (m *Monitor) HandleState(snap timer.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.autoPaused = snap.State == timer.StatePausedAuto

	if m.enabled && snap.Mode == timer.ModeFocus && snap.State == timer.StateRunning {
		m.armLocked()
	} else {
		m.disarmLocked()
	}
}

// Activity handles a detected activity signal: the pending timeout is
// cancelled and, when currently auto-paused, the timer resumes with its
// remaining time untouched.
func (m *Monitor) Activity() {
	m.mu.Lock()
	resume := false
	if m.autoPaused {
		m.autoPaused = false
		resume = true
	} else if m.armed {
		m.armLocked() // restart the countdown from the full threshold
	}
	m.mu.Unlock()

	if resume {
		m.controller.Start()
	}
}

// SecondsRemaining returns the whole seconds left until auto-pause, or 0
// when no timeout is pending. Observational only, for UI countdowns.
func (m *Monitor) SecondsRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.armed {
		return 0
	}
	remaining := m.threshold - m.now().Sub(m.armedAt)
	if remaining < 0 {
		return 0
	}
	return int(remaining / time.Second)
}

// Armed reports whether an inactivity timeout is pending.
func (m *Monitor) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed
}

// armLocked cancels any pending timeout and starts a fresh one. Always
// cancel-then-reassign: a stale timer must never fire against a
// superseded state.
func (m *Monitor) armLocked() {
	m.disarmLocked()
	if m.threshold <= 0 {
		return
	}
	m.armed = true
	m.armedAt = m.now()
	m.timeout = time.AfterFunc(m.threshold, m.fireTimeout)
}

// disarmLocked cancels the pending timeout, if any.
func (m *Monitor) disarmLocked() {
	if m.timeout != nil {
		m.timeout.Stop()
		m.timeout = nil
	}
	m.armed = false
}

// fireTimeout runs when the inactivity timeout elapses.
func (m *Monitor) fireTimeout() {
	m.mu.Lock()
	fire := m.armed && m.enabled
	m.armed = false
	m.timeout = nil
	m.mu.Unlock()

	if fire {
		// The engine re-checks its own conditions; this is a no-op if
		// the state moved on since the timeout was armed.
		m.controller.AutoPause()
	}
}

// Start begins polling the activity source, translating drops in the
// reported idle time into activity signals. Callable again after Stop.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running || m.source == nil {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.ticker = time.NewTicker(m.pollInterval)
	m.stopChan = make(chan struct{})
	ticker := m.ticker
	stopChan := m.stopChan
	m.mu.Unlock()

	go m.pollLoop(ticker, stopChan)
}

// Stop halts the poll loop and cancels any pending timeout.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopChan)
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	m.disarmLocked()
}

func (m *Monitor) pollLoop(ticker *time.Ticker, stopChan chan struct{}) {
	for {
		select {
		case <-ticker.C:
			m.checkIdle()
		case <-stopChan:
			return
		}
	}
}

// checkIdle reads the system idle time. The OS counter resets to zero on
// every input event, so a drop since the previous reading means the user
// did something.
func (m *Monitor) checkIdle() {
	idleDuration, err := m.source.IdleDuration()
	if err != nil {
		// Can't tell; assume the user is active.
		m.Activity()
		return
	}

	m.mu.Lock()
	active := idleDuration < m.lastIdle
	m.lastIdle = idleDuration
	m.mu.Unlock()

	if active {
		m.Activity()
	}
}
