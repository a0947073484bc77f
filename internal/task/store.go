package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/storage"
	"github.com/notexe/dayplan/internal/timeline"
)

// Store provides SQLite-backed storage for tasks.
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// NewStore ensures the tasks table exists in db. The caller owns db.
func NewStore(db *sql.DB, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.Real{}
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT    NOT NULL,
			notes      TEXT    NOT NULL DEFAULT '',
			start_time TEXT    NOT NULL,
			end_time   TEXT,
			completed  INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL,
			updated_at TEXT    NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create tasks table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_tasks_start ON tasks(start_time)`); err != nil {
		return nil, fmt.Errorf("failed to create tasks index: %w", err)
	}
	return &Store{db: db, clock: clk}, nil
}

const selectColumns = `SELECT id, title, notes, start_time, end_time, completed,
	created_at, updated_at FROM tasks`

// Add inserts a task and returns it with the assigned ID.
func (s *Store) Add(ctx context.Context, t Task) (*Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, errors.New("task title is required")
	}
	if t.Start.IsZero() {
		return nil, errors.New("task start time is required")
	}
	if t.End != nil && !t.End.After(t.Start) {
		return nil, errors.New("task end must be after its start")
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Completed = false

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, notes, start_time, end_time, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, t.Title, t.Notes, storage.FormatTime(t.Start), storage.NullTime(t.End),
		storage.FormatTime(now), storage.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	t.ID = id
	t.Start = t.Start.UTC().Truncate(time.Second)
	if t.End != nil {
		end := t.End.UTC().Truncate(time.Second)
		t.End = &end
	}

	return &t, nil
}

// List returns the tasks starting on day's calendar date (in day's location),
// ordered by start. Completed tasks are included.
func (s *Store) List(ctx context.Context, day time.Time) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC, id ASC
	`, storage.FormatTime(timeline.StartOfDay(day)), storage.FormatTime(timeline.EndOfDay(day)))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, day.Location())
}

// ItemsForDay returns the non-completed tasks on day as partitioner input.
func (s *Store) ItemsForDay(ctx context.Context, day time.Time) ([]timeline.Item, error) {
	tasks, err := s.List(ctx, day)
	if err != nil {
		return nil, err
	}

	items := make([]timeline.Item, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		items = append(items, t.Item())
	}
	return items, nil
}

// Timeline partitions day around its open tasks.
func (s *Store) Timeline(ctx context.Context, day time.Time, requestedMinutes int) (timeline.Timeline, error) {
	items, err := s.ItemsForDay(ctx, day)
	if err != nil {
		return timeline.Timeline{}, err
	}
	return timeline.Compute(day, items, requestedMinutes), nil
}

// GetByID returns a single task.
func (s *Store) GetByID(ctx context.Context, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	t, err := scanTask(row, time.UTC)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Complete marks a task as done. Completed tasks no longer occupy time.
func (s *Store) Complete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1, updated_at = ? WHERE id = ?
	`, storage.FormatTime(s.clock.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a task by ID.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTasks(rows *sql.Rows, loc *time.Location) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner, loc *time.Location) (*Task, error) {
	var t Task
	var start, createdAt, updatedAt string
	var end sql.NullString
	var completed int

	if err := row.Scan(&t.ID, &t.Title, &t.Notes, &start, &end,
		&completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0

	var err error
	if t.Start, err = storage.ParseTime(start); err != nil {
		return nil, fmt.Errorf("task %d: bad start_time: %w", t.ID, err)
	}
	t.Start = t.Start.In(loc)
	if t.End, err = storage.ParseNullTime(end); err != nil {
		return nil, fmt.Errorf("task %d: bad end_time: %w", t.ID, err)
	}
	if t.End != nil {
		e := t.End.In(loc)
		t.End = &e
	}
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	t.UpdatedAt, _ = storage.ParseTime(updatedAt)

	return &t, nil
}
