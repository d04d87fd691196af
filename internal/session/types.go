package session

import "time"

// DateFormat is the key format for daily aggregates
const DateFormat = "2006-01-02"

// Record represents a single completed focus session
type Record struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Notes           string    `json:"notes,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// DailyState holds the aggregated counters for a single day
type DailyState struct {
	Date              string `json:"date"`
	CompletedCount    int    `json:"completed_count"`
	TotalFocusSeconds int    `json:"total_focus_seconds"`
	SessionIndex      int    `json:"session_index"`
}

// Task is an item on the user's task list
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Pomodoros int       `json:"pomodoros"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Backend is the persistence contract the accountant writes through.
// Implementations are expected to be durable but best-effort: callers
// log failures and move on, they never roll back in-memory state.
type Backend interface {
	// LoadDailyState returns the stored aggregate, or nil if none exists.
	LoadDailyState() (*DailyState, error)
	SaveDailyState(state DailyState) error

	SaveSession(record Record) error
	// SessionsBetween returns records with a start time in [from, to).
	SessionsBetween(from, to time.Time) ([]Record, error)
	// DailyTotals returns the stored aggregates for dates in [from, to],
	// both inclusive date-string keys, oldest first.
	DailyTotals(from, to string) ([]DailyState, error)

	LoadTasks() ([]Task, error)
	SaveTasks(tasks []Task) error
}
