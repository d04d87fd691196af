package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/siegfried/pomodoro/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreDailyStateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	// Empty database: no state, no error.
	state, err := store.LoadDailyState()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state from empty store, got %+v", state)
	}

	want := session.DailyState{
		Date:              "2025-06-02",
		CompletedCount:    3,
		TotalFocusSeconds: 4500,
		SessionIndex:      4,
	}
	if err := store.SaveDailyState(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.LoadDailyState()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored state")
	}
	if *got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", *got, want)
	}
}

func TestStoreDailyStateUpsert(t *testing.T) {
	store := newTestStore(t)

	first := session.DailyState{Date: "2025-06-02", CompletedCount: 1, TotalFocusSeconds: 1500, SessionIndex: 2}
	if err := store.SaveDailyState(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second := first
	second.CompletedCount = 2
	second.TotalFocusSeconds = 3000
	second.SessionIndex = 3
	if err := store.SaveDailyState(second); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.LoadDailyState()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.CompletedCount != 2 || got.TotalFocusSeconds != 3000 {
		t.Errorf("expected upserted values, got %+v", got)
	}
}

func TestStoreLoadsMostRecentDay(t *testing.T) {
	store := newTestStore(t)

	for _, state := range []session.DailyState{
		{Date: "2025-06-01", CompletedCount: 8},
		{Date: "2025-06-02", CompletedCount: 2},
		{Date: "2025-05-30", CompletedCount: 5},
	} {
		if err := store.SaveDailyState(state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	got, err := store.LoadDailyState()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Date != "2025-06-02" {
		t.Errorf("expected most recent date, got %q", got.Date)
	}
}

func TestStoreSessionsBetween(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	records := []session.Record{
		{ID: "a", Type: "focus", DurationMinutes: 25, StartTime: base, EndTime: base.Add(25 * time.Minute), Tags: []string{"deep-work"}, CreatedAt: base},
		{ID: "b", Type: "focus", DurationMinutes: 10, StartTime: base.Add(2 * time.Hour), EndTime: base.Add(2*time.Hour + 10*time.Minute), CreatedAt: base},
		{ID: "c", Type: "focus", DurationMinutes: 25, StartTime: base.Add(48 * time.Hour), EndTime: base.Add(48*time.Hour + 25*time.Minute), CreatedAt: base},
	}
	for _, r := range records {
		if err := store.SaveSession(r); err != nil {
			t.Fatalf("save session %s failed: %v", r.ID, err)
		}
	}

	got, err := store.SessionsBetween(base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records in range, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected order [b a], got [%s %s]", got[0].ID, got[1].ID)
	}
	if len(got[1].Tags) != 1 || got[1].Tags[0] != "deep-work" {
		t.Errorf("expected tags preserved, got %v", got[1].Tags)
	}
}

func TestStoreDailyTotalsRange(t *testing.T) {
	store := newTestStore(t)

	for _, state := range []session.DailyState{
		{Date: "2025-05-26", CompletedCount: 4, TotalFocusSeconds: 6000, SessionIndex: 5},
		{Date: "2025-05-28", CompletedCount: 2, TotalFocusSeconds: 3000, SessionIndex: 3},
		{Date: "2025-06-02", CompletedCount: 6, TotalFocusSeconds: 9000, SessionIndex: 7},
	} {
		if err := store.SaveDailyState(state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	got, err := store.DailyTotals("2025-05-26", "2025-06-01")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 days in range, got %d", len(got))
	}
	// Oldest first, bounds inclusive.
	if got[0].Date != "2025-05-26" || got[1].Date != "2025-05-28" {
		t.Errorf("expected [2025-05-26 2025-05-28], got [%s %s]", got[0].Date, got[1].Date)
	}
	if got[0].CompletedCount != 4 || got[1].TotalFocusSeconds != 3000 {
		t.Errorf("aggregate values mismatch: %+v", got)
	}
}

func TestStoreTasksRoundTrip(t *testing.T) {
	store := newTestStore(t)

	created := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	tasks := []session.Task{
		{ID: "t1", Title: "write report", Pomodoros: 2, Done: false, CreatedAt: created},
		{ID: "t2", Title: "review patches", Pomodoros: 0, Done: true, CreatedAt: created.Add(time.Minute)},
	}
	if err := store.SaveTasks(tasks); err != nil {
		t.Fatalf("save tasks failed: %v", err)
	}

	got, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].ID != "t1" || got[0].Pomodoros != 2 || got[0].Done {
		t.Errorf("task t1 mismatch: %+v", got[0])
	}
	if got[1].ID != "t2" || !got[1].Done {
		t.Errorf("task t2 mismatch: %+v", got[1])
	}

	// SaveTasks replaces, not appends.
	if err := store.SaveTasks(tasks[:1]); err != nil {
		t.Fatalf("save tasks failed: %v", err)
	}
	got, err = store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected replacement, got %d tasks", len(got))
	}
}
