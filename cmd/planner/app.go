package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/reminder"
	"github.com/notexe/dayplan/internal/storage"
	"github.com/notexe/dayplan/internal/task"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// app holds the stores a command works on.
type app struct {
	db        *sql.DB
	tasks     *task.Store
	reminders *reminder.Store
	loc       *time.Location
}

func openApp() (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", zap.String("path", cfg.Database.Path))

	tasks, err := task.NewStore(db, clk)
	if err != nil {
		db.Close()
		return nil, err
	}
	reminders, err := reminder.NewStore(db, reminder.WithClock(clk))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{db: db, tasks: tasks, reminders: reminders, loc: loc}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// withApp opens the stores for the duration of fn.
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// parseDay parses a YYYY-MM-DD date in the configured location. An empty
// value means today.
func (a *app) parseDay(v string) (time.Time, error) {
	if v == "" {
		return clk.Now().In(a.loc), nil
	}
	d, err := time.ParseInLocation(dateLayout, v, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v)
	}
	return d, nil
}

// parseMoment accepts "YYYY-MM-DD HH:MM", a bare "HH:MM" for today, or
// RFC3339.
func (a *app) parseMoment(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, v, a.loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", v, a.loc); err == nil {
		now := clk.Now().In(a.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, a.loc), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want \"YYYY-MM-DD HH:MM\", HH:MM or RFC3339)", v)
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}
