package stats

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/siegfried/pomodoro/internal/session"
)

// Store persists daily aggregates, session records and the task list
// using SQLite. It implements session.Backend.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the database at the given path.
func NewStore(dbPath string) (*Store, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the database tables if they don't exist
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_state (
		date DATE PRIMARY KEY,
		completed_count INTEGER DEFAULT 0,
		total_focus_seconds INTEGER DEFAULT 0,
		session_index INTEGER DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		notes TEXT,
		tags TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		pomodoros INTEGER DEFAULT 0,
		done BOOLEAN DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_daily_state_date ON daily_state(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadDailyState returns the most recently stored aggregate, or nil if
// the table is empty. Callers compare the date to today and discard
// stale rows themselves.
func (s *Store) LoadDailyState() (*session.DailyState, error) {
	var state session.DailyState
	err := s.db.QueryRow(
		`SELECT date, completed_count, total_focus_seconds, session_index
		 FROM daily_state
		 ORDER BY date DESC
		 LIMIT 1`,
	).Scan(&state.Date, &state.CompletedCount, &state.TotalFocusSeconds, &state.SessionIndex)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveDailyState upserts the aggregate for its date.
func (s *Store) SaveDailyState(state session.DailyState) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_state (date, completed_count, total_focus_seconds, session_index)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   completed_count = excluded.completed_count,
		   total_focus_seconds = excluded.total_focus_seconds,
		   session_index = excluded.session_index`,
		state.Date,
		state.CompletedCount,
		state.TotalFocusSeconds,
		state.SessionIndex,
	)
	return err
}

// SaveSession inserts an individual session record.
func (s *Store) SaveSession(record session.Record) error {
	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, type, duration_minutes, start_time, end_time, notes, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Type,
		record.DurationMinutes,
		record.StartTime,
		record.EndTime,
		record.Notes,
		string(tags),
		record.CreatedAt,
	)
	return err
}

// SessionsBetween returns records with a start time in [from, to),
// newest first.
func (s *Store) SessionsBetween(from, to time.Time) ([]session.Record, error) {
	rows, err := s.db.Query(
		`SELECT id, type, duration_minutes, start_time, end_time,
		        COALESCE(notes, ''), COALESCE(tags, '[]'), created_at
		 FROM sessions
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time DESC`,
		from,
		to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []session.Record
	for rows.Next() {
		var r session.Record
		var tags string
		err := rows.Scan(&r.ID, &r.Type, &r.DurationMinutes, &r.StartTime, &r.EndTime, &r.Notes, &tags, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// DailyTotals returns the stored aggregates for dates in [from, to],
// oldest first.
func (s *Store) DailyTotals(from, to string) ([]session.DailyState, error) {
	rows, err := s.db.Query(
		`SELECT date, completed_count, total_focus_seconds, session_index
		 FROM daily_state
		 WHERE date >= ? AND date <= ?
		 ORDER BY date ASC`,
		from,
		to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []session.DailyState
	for rows.Next() {
		var state session.DailyState
		err := rows.Scan(&state.Date, &state.CompletedCount, &state.TotalFocusSeconds, &state.SessionIndex)
		if err != nil {
			return nil, err
		}
		totals = append(totals, state)
	}

	return totals, rows.Err()
}

// LoadTasks returns all persisted tasks, oldest first.
func (s *Store) LoadTasks() ([]session.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, pomodoros, done, created_at
		 FROM tasks
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []session.Task
	for rows.Next() {
		var t session.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Pomodoros, &t.Done, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// SaveTasks replaces the stored task list.
func (s *Store) SaveTasks(tasks []session.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}
	for _, t := range tasks {
		_, err := tx.Exec(
			"INSERT INTO tasks (id, title, pomodoros, done, created_at) VALUES (?, ?, ?, ?, ?)",
			t.ID,
			t.Title,
			t.Pomodoros,
			t.Done,
			t.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DefaultPath returns the standard location of the stats database.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "Pomodoro", "stats.db"), nil
}
