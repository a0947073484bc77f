package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/storage"
)

// Store provides SQLite-backed storage for reminders.
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used for bookkeeping timestamps.
func WithClock(c clock.Clock) StoreOption {
	return func(s *Store) { s.clock = c }
}

// NewStore ensures the reminders table exists in db. The caller owns db.
func NewStore(db *sql.DB, opts ...StoreOption) (*Store, error) {
	s := &Store{db: db, clock: clock.Real{}}
	for _, opt := range opts {
		opt(s)
	}
	if err := createTable(db); err != nil {
		return nil, err
	}
	return s, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT    NOT NULL,
			notes          TEXT    NOT NULL DEFAULT '',
			scheduled_time TEXT    NOT NULL,
			priority       TEXT    NOT NULL DEFAULT 'medium',
			status         TEXT    NOT NULL DEFAULT 'pending',
			snoozed_until  TEXT,
			sent_at        TEXT,
			created_at     TEXT    NOT NULL,
			updated_at     TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reminders table: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, title, notes, scheduled_time, priority, status,
	snoozed_until, sent_at, created_at, updated_at FROM reminders`

// Add inserts a new pending reminder and returns it with the assigned ID.
func (s *Store) Add(ctx context.Context, r Reminder) (*Reminder, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, errors.New("reminder title is required")
	}
	if r.ScheduledTime.IsZero() {
		return nil, errors.New("reminder scheduled time is required")
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !validPriority(r.Priority) {
		return nil, fmt.Errorf("invalid priority %q", r.Priority)
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Status = StatusPending
	r.SnoozedUntil = nil
	r.SentAt = nil
	r.ScheduledTime = r.ScheduledTime.UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (title, notes, scheduled_time, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Title, r.Notes, storage.FormatTime(r.ScheduledTime),
		r.Priority, string(r.Status),
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	r.ID = id

	return &r, nil
}

// List returns reminders ordered by scheduled time, optionally filtered by
// status. Pass an empty status to list all.
func (s *Store) List(ctx context.Context, status Status) ([]Reminder, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		if !validStatus(status) {
			return nil, fmt.Errorf("invalid status %q", status)
		}
		rows, err = s.db.QueryContext(ctx, selectColumns+` WHERE status = ? ORDER BY scheduled_time ASC, id ASC`, string(status))
	} else {
		rows, err = s.db.QueryContext(ctx, selectColumns+` ORDER BY scheduled_time ASC, id ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Snapshot returns every reminder. It satisfies the scheduler's source.
func (s *Store) Snapshot(ctx context.Context) ([]Reminder, error) {
	return s.List(ctx, "")
}

// GetByID returns a single reminder.
func (s *Store) GetByID(ctx context.Context, id int64) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	r, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// MarkSent moves a pending reminder to sent. Repeating the call on a reminder
// that is already sent succeeds without changes.
func (s *Store) MarkSent(ctx context.Context, id int64) error {
	now := storage.FormatTime(s.clock.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET status = ?, sent_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(StatusSent), now, now, id, string(StatusPending))
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	n, _ := result.RowsAffected()
	if n > 0 {
		return nil
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == StatusSent {
		return nil
	}
	return fmt.Errorf("reminder %d is %s, not pending", id, r.Status)
}

// Snooze parks a pending or sent reminder until the given time. The scanner
// ignores it until WakeSnoozed returns it to pending.
func (s *Store) Snooze(ctx context.Context, id int64, until time.Time) (*Reminder, error) {
	now := storage.FormatTime(s.clock.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET status = ?, snoozed_until = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(StatusSnoozed), storage.FormatTime(until), now,
		id, string(StatusPending), string(StatusSent))
	if err != nil {
		return nil, fmt.Errorf("failed to snooze reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		r, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("reminder %d is already %s", id, r.Status)
	}

	return s.GetByID(ctx, id)
}

// WakeSnoozed returns every snoozed reminder whose snooze has elapsed to
// pending, rescheduled at its snooze time. It reports how many were woken.
func (s *Store) WakeSnoozed(ctx context.Context, now time.Time) (int64, error) {
	ts := storage.FormatTime(now)

	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET status = ?, scheduled_time = snoozed_until, snoozed_until = NULL,
		    sent_at = NULL, updated_at = ?
		WHERE status = ? AND snoozed_until IS NOT NULL AND snoozed_until <= ?
	`, string(StatusPending), ts, string(StatusSnoozed), ts)
	if err != nil {
		return 0, fmt.Errorf("failed to wake snoozed reminders: %w", err)
	}

	n, _ := result.RowsAffected()
	return n, nil
}

// Delete removes a reminder by ID.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateFields holds optional fields for a partial update.
type UpdateFields struct {
	Title         *string
	Notes         *string
	ScheduledTime *time.Time
	Priority      *string
}

// Update applies partial updates to a reminder. Changing the scheduled time
// starts a new scheduling instance: the reminder becomes pending again.
func (s *Store) Update(ctx context.Context, id int64, fields UpdateFields) (*Reminder, error) {
	var setClauses []string
	var args []any

	if fields.Title != nil {
		if strings.TrimSpace(*fields.Title) == "" {
			return nil, errors.New("reminder title cannot be empty")
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *fields.Notes)
	}
	if fields.ScheduledTime != nil {
		setClauses = append(setClauses,
			"scheduled_time = ?", "status = ?", "snoozed_until = NULL", "sent_at = NULL")
		args = append(args, storage.FormatTime(*fields.ScheduledTime), string(StatusPending))
	}
	if fields.Priority != nil {
		if !validPriority(*fields.Priority) {
			return nil, fmt.Errorf("invalid priority %q", *fields.Priority)
		}
		setClauses = append(setClauses, "priority = ?")
		args = append(args, *fields.Priority)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, storage.FormatTime(s.clock.Now()), id)

	query := "UPDATE reminders SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}

	return s.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func scanReminder(row rowScanner) (*Reminder, error) {
	var r Reminder
	var status, scheduled, createdAt, updatedAt string
	var snoozedUntil, sentAt sql.NullString

	if err := row.Scan(&r.ID, &r.Title, &r.Notes,
		&scheduled, &r.Priority, &status,
		&snoozedUntil, &sentAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	r.Status = Status(status)

	var err error
	if r.ScheduledTime, err = storage.ParseTime(scheduled); err != nil {
		return nil, fmt.Errorf("reminder %d: bad scheduled_time: %w", r.ID, err)
	}
	if r.SnoozedUntil, err = storage.ParseNullTime(snoozedUntil); err != nil {
		return nil, fmt.Errorf("reminder %d: bad snoozed_until: %w", r.ID, err)
	}
	if r.SentAt, err = storage.ParseNullTime(sentAt); err != nil {
		return nil, fmt.Errorf("reminder %d: bad sent_at: %w", r.ID, err)
	}
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)

	return &r, nil
}
