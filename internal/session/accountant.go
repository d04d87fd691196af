package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/siegfried/pomodoro/internal/timer"
)

// minRecordedDuration is the shortest focus segment worth an individual
// session record. Shorter segments still count toward the aggregates.
const minRecordedDuration = 60 * time.Second

// rolloverInterval is the cadence of the midnight-rollover check.
const rolloverInterval = time.Minute

// Accountant derives daily aggregates and individual session records
// from the engine's transition callbacks and persists them. It never
// drives transitions itself; the one state change it owns is resetting
// the counters when the date rolls over.
type Accountant struct {
	backend Backend
	engine  *timer.Engine
	now     func() time.Time

	mu   sync.Mutex
	date string // the day the in-memory counters belong to

	rolloverEvery time.Duration
	ticker        *time.Ticker
	stopChan      chan struct{}
	running       bool
}

// NewAccountant creates an accountant over the given backend and engine.
// A nil now falls back to time.Now.
func NewAccountant(backend Backend, engine *timer.Engine, now func() time.Time) *Accountant {
	if now == nil {
		now = time.Now
	}
	a := &Accountant{
		backend:       backend,
		engine:        engine,
		now:           now,
		rolloverEvery: rolloverInterval,
	}
	a.date = now().Format(DateFormat)
	return a
}

// Restore loads the persisted daily state into the engine. Counters from
// a previous day are discarded; the day starts at zero.
func (a *Accountant) Restore() {
	state, err := a.backend.LoadDailyState()
	if err != nil {
		log.Printf("Warning: failed to load daily state: %v", err)
		return
	}
	if state == nil {
		return
	}

	a.mu.Lock()
	today := a.date
	a.mu.Unlock()

	if state.Date != today {
		return
	}
	a.engine.RestoreCounters(timer.Counters{
		CompletedCount: state.CompletedCount,
		TotalFocus:     time.Duration(state.TotalFocusSeconds) * time.Second,
	})
}

// HandleFocusCompleted persists an individual session record for a
// completed or skipped focus session. Segments of a minute or less are
// not worth a record.
func (a *Accountant) HandleFocusCompleted(completion timer.Completion) {
	if completion.Duration <= minRecordedDuration {
		return
	}

	endTime := completion.EndedAt
	if endTime.IsZero() {
		endTime = a.now()
	}
	startTime := completion.StartedAt
	if startTime.IsZero() {
		// No preserved start; compute backward from the end.
		startTime = endTime.Add(-completion.Duration)
	}

	record := Record{
		ID:              uuid.NewString(),
		Type:            "focus",
		DurationMinutes: int(completion.Duration.Minutes()),
		StartTime:       startTime,
		EndTime:         endTime,
		CreatedAt:       a.now(),
	}
	if err := a.backend.SaveSession(record); err != nil {
		log.Printf("Warning: failed to save session record: %v", err)
	}
}

// HandleCountersChanged flushes the daily aggregate. Registered for
// every completion, skip and undo, so the stored state trails the
// in-memory counters by at most one failed write.
func (a *Accountant) HandleCountersChanged(counters timer.Counters) {
	a.mu.Lock()
	date := a.date
	a.mu.Unlock()

	state := DailyState{
		Date:              date,
		CompletedCount:    counters.CompletedCount,
		TotalFocusSeconds: int(counters.TotalFocus.Seconds()),
		SessionIndex:      counters.SessionIndex,
	}
	if err := a.backend.SaveDailyState(state); err != nil {
		log.Printf("Warning: failed to save daily state: %v", err)
	}
}

// Flush persists the current engine counters immediately. Called once at
// shutdown.
func (a *Accountant) Flush() {
	a.HandleCountersChanged(a.engine.Counters())
}

// CheckRollover resets the counters when the calendar day has changed.
// Yesterday's totals need no explicit archival: they were persisted
// incrementally under yesterday's key.
func (a *Accountant) CheckRollover() {
	today := a.now().Format(DateFormat)

	a.mu.Lock()
	rolled := a.date != today
	a.date = today
	a.mu.Unlock()

	if rolled {
		log.Printf("Daily rollover: resetting counters for %s", today)
		a.engine.ResetCounters()
	}
}

// History is a read-only passthrough to the backend's session records.
func (a *Accountant) History(from, to time.Time) ([]Record, error) {
	return a.backend.SessionsBetween(from, to)
}

// DailyTotals is a read-only passthrough to the backend's per-day
// aggregates, e.g. for a weekly report.
func (a *Accountant) DailyTotals(from, to time.Time) ([]DailyState, error) {
	return a.backend.DailyTotals(from.Format(DateFormat), to.Format(DateFormat))
}

// Start launches the periodic rollover check. Callable again after Stop.
func (a *Accountant) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.ticker = time.NewTicker(a.rolloverEvery)
	a.stopChan = make(chan struct{})
	ticker := a.ticker
	stopChan := a.stopChan
	a.mu.Unlock()

	go a.rolloverLoop(ticker, stopChan)
}

// Stop halts the rollover check.
func (a *Accountant) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false
	close(a.stopChan)
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
}

func (a *Accountant) rolloverLoop(ticker *time.Ticker, stopChan chan struct{}) {
	for {
		select {
		case <-ticker.C:
			a.CheckRollover()
		case <-stopChan:
			return
		}
	}
}
