package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/storage"
)

func newTestStore(t *testing.T, clk clock.Clock) *Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db, WithClock(clk))
	require.NoError(t, err)
	return s
}

func TestStore_AddAndGet(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 12, 7, 8, 0, 0, 0, time.UTC))
	s := newTestStore(t, clk)

	at := time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)
	added, err := s.Add(ctx, Reminder{Title: "Stretch", Notes: "5 min", ScheduledTime: at})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, StatusPending, added.Status)
	assert.Equal(t, PriorityMedium, added.Priority)

	got, err := s.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stretch", got.Title)
	assert.Equal(t, "5 min", got.Notes)
	assert.True(t, got.ScheduledTime.Equal(at))
	assert.True(t, got.CreatedAt.Equal(clk.Now()))
	assert.Nil(t, got.SentAt)
}

func TestStore_AddValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, clock.Real{})

	_, err := s.Add(ctx, Reminder{ScheduledTime: time.Now()})
	assert.Error(t, err)

	_, err = s.Add(ctx, Reminder{Title: "x"})
	assert.Error(t, err)

	_, err = s.Add(ctx, Reminder{Title: "x", ScheduledTime: time.Now(), Priority: "urgent"})
	assert.Error(t, err)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t, clock.Real{})
	_, err := s.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), 99), ErrNotFound)
	assert.ErrorIs(t, s.MarkSent(context.Background(), 99), ErrNotFound)
}

func TestStore_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, clock.Real{})
	base := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)

	late, err := s.Add(ctx, Reminder{Title: "late", ScheduledTime: base.Add(3 * time.Hour)})
	require.NoError(t, err)
	early, err := s.Add(ctx, Reminder{Title: "early", ScheduledTime: base.Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, s.MarkSent(ctx, early.ID))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{early.ID, late.ID}, ids(all))

	pending, err := s.List(ctx, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, []int64{late.ID}, ids(pending))

	_, err = s.List(ctx, Status("bogus"))
	assert.Error(t, err)
}

func TestStore_MarkSentIdempotent(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 12, 7, 10, 0, 1, 0, time.UTC))
	s := newTestStore(t, clk)

	r, err := s.Add(ctx, Reminder{Title: "R1", ScheduledTime: time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	require.NoError(t, s.MarkSent(ctx, r.ID))
	require.NoError(t, s.MarkSent(ctx, r.ID))

	got, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.True(t, got.SentAt.Equal(clk.Now()))
}

func TestStore_SnoozeAndWake(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC))
	s := newTestStore(t, clk)

	r, err := s.Add(ctx, Reminder{Title: "R1", ScheduledTime: clk.Now()})
	require.NoError(t, err)
	require.NoError(t, s.MarkSent(ctx, r.ID))

	until := clk.Now().Add(10 * time.Minute)
	snoozed, err := s.Snooze(ctx, r.ID, until)
	require.NoError(t, err)
	assert.Equal(t, StatusSnoozed, snoozed.Status)
	require.NotNil(t, snoozed.SnoozedUntil)

	_, err = s.Snooze(ctx, r.ID, until)
	assert.Error(t, err, "snoozing twice should fail")

	n, err := s.WakeSnoozed(ctx, clk.Now().Add(5*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.WakeSnoozed(ctx, until)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	woken, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, woken.Status)
	assert.True(t, woken.ScheduledTime.Equal(until))
	assert.Nil(t, woken.SnoozedUntil)
	assert.Nil(t, woken.SentAt)
}

func TestStore_UpdateReschedules(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, clock.Real{})
	at := time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)

	r, err := s.Add(ctx, Reminder{Title: "R1", ScheduledTime: at})
	require.NoError(t, err)
	require.NoError(t, s.MarkSent(ctx, r.ID))

	title := "Renamed"
	updated, err := s.Update(ctx, r.ID, UpdateFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, StatusSent, updated.Status, "title change keeps status")

	next := at.Add(24 * time.Hour)
	updated, err = s.Update(ctx, r.ID, UpdateFields{ScheduledTime: &next})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)
	assert.True(t, updated.ScheduledTime.Equal(next))

	bad := "urgent"
	_, err = s.Update(ctx, r.ID, UpdateFields{Priority: &bad})
	assert.Error(t, err)

	_, err = s.Update(ctx, 404, UpdateFields{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, clock.Real{})

	r, err := s.Add(ctx, Reminder{Title: "gone", ScheduledTime: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, r.ID))

	_, err = s.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
