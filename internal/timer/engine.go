package timer

import (
	"sync"
	"time"
)

// Config contains runtime options for the Engine.
type Config struct {
	// TickInterval is the cadence of the internal tick loop. Correctness
	// does not depend on it because remaining time is always recomputed
	// from the wall-clock anchor.
	TickInterval time.Duration
	// Now is the clock source, overridable in tests.
	Now func() time.Time
}

// Engine is the timer state machine. It owns the countdown, the mode
// rotation and the daily counters, and reports every mutation to its
// observers. All methods are safe for concurrent use.
//
// Remaining time is anchored to the wall clock: whenever the countdown
// starts or is adjusted, the engine captures (anchorAt, anchorRemaining)
// and every subsequent read computes anchorRemaining - (now - anchorAt).
// A naive per-tick decrement would fall behind real time whenever the
// process is throttled in the background; the anchor cannot.
type Engine struct {
	mu     sync.Mutex
	now    func() time.Time
	params Parameters

	mode       Mode
	running    bool
	paused     bool
	autoPaused bool

	remaining       time.Duration
	anchorAt        time.Time
	anchorRemaining time.Duration

	sessionStart time.Time     // wall-clock start of the current focus session
	focusElapsed time.Duration // running time accumulated across re-anchors
	overtime     bool          // the zero crossing has already been credited

	completedCount int
	totalFocus     time.Duration
	lastCompleted  time.Duration // delta needed to reverse the last completion
	undoable       bool

	// Callbacks, fired synchronously after the mutation commits and the
	// lock is released.
	onStateChange func(Snapshot)
	onDisplay     func(Snapshot)
	onFocusDone   func(Completion)
	onFocusUndone func()
	onCounters    func(Counters)
	onMessage     func(string)

	tickInterval time.Duration
	stopCh       chan struct{}
	loopRunning  bool
}

// NewEngine creates an engine in Focus mode, idle, with a full countdown.
func NewEngine(params Parameters, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = 250 * time.Millisecond
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Engine{
		now:          options.Now,
		params:       params,
		mode:         ModeFocus,
		remaining:    params.FocusDuration,
		tickInterval: options.TickInterval,
	}
}

// SetOnStateChange sets the callback for run-state and mode transitions.
func (e *Engine) SetOnStateChange(callback func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStateChange = callback
}

// SetOnDisplay sets the callback fired after every mutation.
func (e *Engine) SetOnDisplay(callback func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDisplay = callback
}

// SetOnFocusCompleted sets the callback for completed or skipped focus
// sessions.
func (e *Engine) SetOnFocusCompleted(callback func(Completion)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFocusDone = callback
}

// SetOnFocusUndone sets the callback for an undone focus completion.
func (e *Engine) SetOnFocusUndone(callback func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFocusUndone = callback
}

// SetOnCountersChanged sets the callback fired whenever the daily
// aggregates need to be flushed to persistence.
func (e *Engine) SetOnCountersChanged(callback func(Counters)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCounters = callback
}

// SetOnMessage sets the callback for short user-facing status messages.
func (e *Engine) SetOnMessage(callback func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMessage = callback
}

// Run launches the internal tick loop. Callable again after Stop.
func (e *Engine) Run() {
	e.mu.Lock()
	if e.loopRunning {
		e.mu.Unlock()
		return
	}
	e.loopRunning = true
	e.stopCh = make(chan struct{})
	stopCh := e.stopCh
	e.mu.Unlock()

	go func() {
		ticker := time.NewTicker(e.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				e.Tick()
			}
		}
	}()
}

// Stop terminates the tick loop. The engine state is left untouched.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.loopRunning {
		e.mu.Unlock()
		return
	}
	e.loopRunning = false
	close(e.stopCh)
	e.mu.Unlock()
}

// Start begins or resumes the countdown. Valid from Idle, ManuallyPaused
// and AutoPaused; a no-op while running.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	now := e.now()
	e.anchorAt = now
	e.anchorRemaining = e.remaining
	e.running = true
	e.paused = false
	e.autoPaused = false
	if e.mode == ModeFocus && e.sessionStart.IsZero() {
		e.sessionStart = now
	}
	fire := e.stateChangedLocked()
	e.mu.Unlock()
	run(fire)
}

// Pause manually pauses a running countdown. The remaining time is
// computed from the anchor at the moment of the call, so the freeze is
// exact even mid-second.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	fire := e.freezeLocked(e.now(), false)
	e.mu.Unlock()
	run(fire)
}

// AutoPause pauses a running focus countdown on behalf of the inactivity
// monitor. A conditional no-op: the monitor may invoke it after the
// conditions it armed under no longer hold.
func (e *Engine) AutoPause() {
	e.mu.Lock()
	if !e.running || e.mode != ModeFocus {
		e.mu.Unlock()
		return
	}
	fire := e.freezeLocked(e.now(), true)
	e.mu.Unlock()
	run(fire)
}

// freezeLocked stops the countdown in place. Caller must hold e.mu.
func (e *Engine) freezeLocked(now time.Time, auto bool) []func() {
	e.accumulateFocusLocked(now)
	e.remaining = e.anchorRemaining - now.Sub(e.anchorAt)
	e.running = false
	e.paused = true
	e.autoPaused = auto
	return e.stateChangedLocked()
}

// Tick recomputes the countdown from the anchor and handles zero
// crossings and the max-session cap. Invoked by the internal loop, but
// callable directly; cadence does not affect correctness.
func (e *Engine) Tick() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	now := e.now()
	e.remaining = e.anchorRemaining - now.Sub(e.anchorAt)

	var fire []func()
	switch {
	case e.maxSessionExceededLocked(now):
		fire = e.freezeLocked(now, false)
		fire = append(fire, e.messageLocked("Session paused — maximum session length reached"))
	case e.remaining > 0:
		fire = e.displayLocked()
	case e.params.AllowContinuous:
		fire = e.softCompleteLocked()
	default:
		fire = e.completeLocked(now, false)
	}
	e.mu.Unlock()
	run(fire)
}

// maxSessionExceededLocked reports whether the safety cap applies. The cap
// covers only the initial portion of a session; once overtime begins, or
// after the start timestamp is cleared, it no longer fires.
func (e *Engine) maxSessionExceededLocked(now time.Time) bool {
	return e.mode == ModeFocus &&
		!e.overtime &&
		!e.sessionStart.IsZero() &&
		e.params.MaxSessionTime > 0 &&
		now.Sub(e.sessionStart) >= e.params.MaxSessionTime
}

// softCompleteLocked credits the zero crossing once and lets the clock
// run into negative (overtime) territory. Re-anchoring at the exact
// crossing instant keeps overtime accounting independent of tick timing.
func (e *Engine) softCompleteLocked() []func() {
	if e.overtime {
		return e.displayLocked()
	}
	zeroAt := e.anchorAt.Add(e.anchorRemaining)
	e.focusElapsed += e.anchorRemaining
	e.anchorAt = zeroAt
	e.anchorRemaining = 0
	e.overtime = true

	if e.mode != ModeFocus {
		return e.displayLocked()
	}

	duration := e.focusElapsed
	e.completedCount++
	e.totalFocus += duration
	e.lastCompleted = duration
	e.undoable = true

	completion := Completion{
		Duration:  duration,
		StartedAt: e.sessionStart,
		EndedAt:   zeroAt,
	}
	e.sessionStart = time.Time{}

	fire := e.focusDoneLocked(completion)
	fire = append(fire, e.countersChangedLocked()...)
	fire = append(fire, e.messageLocked("Focus session complete — running overtime"))
	fire = append(fire, e.displayLocked()...)
	return fire
}

// completeLocked finishes the current session at its zero crossing (or
// immediately, when skipped) and rotates to the next mode.
func (e *Engine) completeLocked(now time.Time, skipped bool) []func() {
	var fire []func()

	if e.mode == ModeFocus {
		if !e.overtime {
			duration := e.focusElapsed
			if e.running {
				if skipped {
					duration += now.Sub(e.anchorAt)
				} else {
					duration += e.anchorRemaining
				}
			}
			endedAt := now
			if e.running && !skipped {
				endedAt = e.anchorAt.Add(e.anchorRemaining)
			}
			e.completedCount++
			e.totalFocus += duration
			e.lastCompleted = duration
			e.undoable = true
			fire = e.focusDoneLocked(Completion{
				Duration:  duration,
				StartedAt: e.sessionStart,
				EndedAt:   endedAt,
				Skipped:   skipped,
			})
		}
		e.enterModeLocked(e.nextBreakLocked(), now)
		fire = append(fire, e.messageLocked("Focus complete — time for a "+e.mode.String()))
	} else {
		e.enterModeLocked(ModeFocus, now)
		if skipped {
			fire = append(fire, e.messageLocked("Break skipped — back to focus mode"))
		} else {
			fire = append(fire, e.messageLocked("Break over — back to focus mode"))
		}
	}

	fire = append(fire, e.countersChangedLocked()...)
	fire = append(fire, e.stateChangedLocked()...)
	return fire
}

// Skip force-completes the current session without waiting for zero.
// For Focus it counts the session; for breaks it rotates straight back
// to Focus without touching the counters. During focus overtime the
// counters were already credited at the zero crossing, so skipping only
// performs the mode transition.
func (e *Engine) Skip() {
	e.mu.Lock()
	fire := e.completeLocked(e.now(), true)
	e.mu.Unlock()
	run(fire)
}

// Undo reverses the most recent focus completion. Valid only while the
// engine sits in the break that followed it; exactly one level is kept,
// so a second consecutive call is a no-op.
func (e *Engine) Undo() {
	e.mu.Lock()
	if e.completedCount == 0 || !e.mode.IsBreak() || !e.undoable {
		e.mu.Unlock()
		return
	}
	e.completedCount--
	e.totalFocus -= e.lastCompleted
	if e.totalFocus < 0 {
		e.totalFocus = 0
	}
	e.lastCompleted = 0
	e.undoable = false

	e.mode = ModeFocus
	e.remaining = e.params.FocusDuration
	e.running = false
	e.paused = false
	e.autoPaused = false
	e.sessionStart = time.Time{}
	e.focusElapsed = 0
	e.overtime = false

	fire := []func(){}
	if cb := e.onFocusUndone; cb != nil {
		fire = append(fire, cb)
	}
	fire = append(fire, e.countersChangedLocked()...)
	fire = append(fire, e.messageLocked("Last session undone — back to focus mode"))
	fire = append(fire, e.stateChangedLocked()...)
	e.mu.Unlock()
	run(fire)
}

// ResetSession discards the in-progress focus session without counting
// it and restores the full focus duration. A no-op outside Focus mode.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	if e.mode != ModeFocus {
		e.mu.Unlock()
		return
	}
	e.remaining = e.params.FocusDuration
	e.running = false
	e.paused = false
	e.autoPaused = false
	e.sessionStart = time.Time{}
	e.focusElapsed = 0
	e.overtime = false

	fire := []func(){e.messageLocked("Session deleted")}
	fire = append(fire, e.stateChangedLocked()...)
	e.mu.Unlock()
	run(fire)
}

// AdjustRemaining adds delta to the current countdown without changing
// the run state. Clamped at zero from below. While running, the anchor
// is moved so the adjustment takes effect immediately.
func (e *Engine) AdjustRemaining(delta time.Duration) {
	e.mu.Lock()
	now := e.now()
	current := e.remaining
	if e.running {
		current = e.anchorRemaining - now.Sub(e.anchorAt)
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	if e.running {
		e.accumulateFocusLocked(now)
		e.anchorAt = now
		e.anchorRemaining = next
	}
	e.remaining = next
	fire := e.displayLocked()
	e.mu.Unlock()
	run(fire)
}

// SetParameters swaps in new runtime parameters. While the countdown is
// not running, the remaining time resets to the new duration for the
// current mode; while running, the in-progress countdown is left alone
// and only future sessions pick up the new values.
func (e *Engine) SetParameters(params Parameters) {
	e.mu.Lock()
	e.params = params
	var fire []func()
	if !e.running {
		e.remaining = params.DurationFor(e.mode)
		e.sessionStart = time.Time{}
		e.focusElapsed = 0
		e.overtime = false
	}
	fire = e.displayLocked()
	e.mu.Unlock()
	run(fire)
}

// Parameters returns the current runtime parameters.
func (e *Engine) Parameters() Parameters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// RestoreCounters seeds the daily aggregates from persisted state at
// startup. The session index is derived, and undo history does not
// survive a restart.
func (e *Engine) RestoreCounters(counters Counters) {
	e.mu.Lock()
	e.completedCount = counters.CompletedCount
	e.totalFocus = counters.TotalFocus
	e.lastCompleted = 0
	e.undoable = false
	fire := e.displayLocked()
	e.mu.Unlock()
	run(fire)
}

// ResetCounters zeroes the daily aggregates for a new day.
func (e *Engine) ResetCounters() {
	e.mu.Lock()
	e.completedCount = 0
	e.totalFocus = 0
	e.lastCompleted = 0
	e.undoable = false
	fire := append(e.countersChangedLocked(), e.displayLocked()...)
	e.mu.Unlock()
	run(fire)
}

// Snapshot returns the current state. While running, the remaining time
// is recomputed from the anchor at call time.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Counters returns the current daily aggregates.
func (e *Engine) Counters() Counters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countersLocked()
}

// nextBreakLocked applies the fixed cycle-of-4 rule: every fourth
// completed focus session earns a long break.
func (e *Engine) nextBreakLocked() Mode {
	if e.completedCount > 0 && e.completedCount%4 == 0 {
		return ModeLongBreak
	}
	return ModeBreak
}

// enterModeLocked rotates into the given mode with a fresh countdown,
// auto-starting it when configured to.
func (e *Engine) enterModeLocked(mode Mode, now time.Time) {
	e.mode = mode
	e.remaining = e.params.DurationFor(mode)
	e.overtime = false
	e.focusElapsed = 0
	e.sessionStart = time.Time{}
	e.paused = false
	e.autoPaused = false
	if e.params.AutoStartNext {
		e.running = true
		e.anchorAt = now
		e.anchorRemaining = e.remaining
		if mode == ModeFocus {
			e.sessionStart = now
		}
	} else {
		e.running = false
	}
}

// accumulateFocusLocked folds the running time since the last anchor
// into the elapsed counter. Must be called before every re-anchor while
// running, so that mid-session duration adjustments cannot corrupt the
// elapsed accounting.
func (e *Engine) accumulateFocusLocked(now time.Time) {
	if e.running && e.mode == ModeFocus {
		e.focusElapsed += now.Sub(e.anchorAt)
	}
}

func (e *Engine) runStateLocked() RunState {
	switch {
	case e.running:
		return StateRunning
	case e.autoPaused:
		return StatePausedAuto
	case e.paused:
		return StatePausedManual
	default:
		return StateIdle
	}
}

func (e *Engine) sessionIndexLocked() int {
	total := e.params.TotalSessions
	if total <= 0 {
		return e.completedCount + 1
	}
	return e.completedCount%total + 1
}

func (e *Engine) snapshotLocked() Snapshot {
	remaining := e.remaining
	if e.running {
		remaining = e.anchorRemaining - e.now().Sub(e.anchorAt)
	}
	return Snapshot{
		Mode:           e.mode,
		State:          e.runStateLocked(),
		Remaining:      remaining,
		Overtime:       e.overtime,
		CompletedCount: e.completedCount,
		SessionIndex:   e.sessionIndexLocked(),
		TotalSessions:  e.params.TotalSessions,
		TotalFocus:     e.totalFocus,
	}
}

func (e *Engine) countersLocked() Counters {
	return Counters{
		CompletedCount: e.completedCount,
		SessionIndex:   e.sessionIndexLocked(),
		TotalFocus:     e.totalFocus,
	}
}

// Callback staging. Mutations collect their callbacks under the lock and
// invoke them after release, preserving the commit-before-notify order
// without holding the lock across observer code.

func (e *Engine) displayLocked() []func() {
	cb := e.onDisplay
	if cb == nil {
		return nil
	}
	snap := e.snapshotLocked()
	return []func(){func() { cb(snap) }}
}

func (e *Engine) stateChangedLocked() []func() {
	var fire []func()
	if cb := e.onStateChange; cb != nil {
		snap := e.snapshotLocked()
		fire = append(fire, func() { cb(snap) })
	}
	fire = append(fire, e.displayLocked()...)
	return fire
}

func (e *Engine) countersChangedLocked() []func() {
	cb := e.onCounters
	if cb == nil {
		return nil
	}
	counters := e.countersLocked()
	return []func(){func() { cb(counters) }}
}

func (e *Engine) focusDoneLocked(completion Completion) []func() {
	cb := e.onFocusDone
	if cb == nil {
		return nil
	}
	return []func(){func() { cb(completion) }}
}

func (e *Engine) messageLocked(text string) func() {
	cb := e.onMessage
	if cb == nil {
		return func() {}
	}
	return func() { cb(text) }
}

func run(fire []func()) {
	for _, fn := range fire {
		if fn != nil {
			fn()
		}
	}
}
