package task

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/storage"
	"github.com/notexe/dayplan/internal/timeline"
)

func newTestStore(t *testing.T, clk clock.Clock) *Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db, clk)
	require.NoError(t, err)
	return s
}

func ptr(t time.Time) *time.Time { return &t }

func TestStore_AddValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	start := time.Date(2025, 12, 7, 9, 0, 0, 0, time.UTC)

	_, err := s.Add(ctx, Task{Start: start})
	assert.Error(t, err)

	_, err = s.Add(ctx, Task{Title: "x"})
	assert.Error(t, err)

	_, err = s.Add(ctx, Task{Title: "x", Start: start, End: ptr(start)})
	assert.Error(t, err)
}

func TestStore_ListByDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	day := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)

	for _, tc := range []Task{
		{Title: "yesterday", Start: day.Add(-time.Hour)},
		{Title: "Review", Start: day.Add(14 * time.Hour), End: ptr(day.Add(14*time.Hour + 30*time.Minute))},
		{Title: "Standup", Start: day.Add(9 * time.Hour), End: ptr(day.Add(10 * time.Hour))},
		{Title: "tomorrow", Start: day.Add(24 * time.Hour)},
	} {
		_, err := s.Add(ctx, tc)
		require.NoError(t, err)
	}

	tasks, err := s.List(ctx, day)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Standup", tasks[0].Title)
	assert.Equal(t, "Review", tasks[1].Title)
	require.NotNil(t, tasks[0].End)
	assert.True(t, tasks[0].End.Equal(day.Add(10*time.Hour)))
}

func TestStore_TimelineSkipsCompletedAndDefaultsEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	day := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)

	done, err := s.Add(ctx, Task{Title: "done", Start: day.Add(8 * time.Hour), End: ptr(day.Add(9 * time.Hour))})
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, done.ID))

	_, err = s.Add(ctx, Task{Title: "open-ended", Start: day.Add(12 * time.Hour)})
	require.NoError(t, err)

	tl, err := s.Timeline(ctx, day, 60)
	require.NoError(t, err)

	occ := tl.Occupied()
	require.Len(t, occ, 1)
	assert.Equal(t, "open-ended", occ[0].Label)
	assert.Equal(t, int(timeline.DefaultItemDuration/time.Minute), occ[0].DurationMinutes())
	assert.Len(t, tl.Free(), 2)
}

func TestStore_CompleteDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	assert.ErrorIs(t, s.Complete(ctx, 7), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 7), ErrNotFound)
	_, err := s.GetByID(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListUsesDayLocation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, clock.Real{})
	loc := time.FixedZone("UTC-5", -5*3600)

	// 2025-12-08 02:00 UTC is still 2025-12-07 in UTC-5
	_, err := s.Add(ctx, Task{Title: "late", Start: time.Date(2025, 12, 8, 2, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	tasks, err := s.List(ctx, time.Date(2025, 12, 7, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, loc, tasks[0].Start.Location())
}
