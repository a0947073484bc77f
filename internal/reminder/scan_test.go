package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(rs []Reminder) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestScanDue_StatusMix(t *testing.T) {
	now := time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)
	snapshot := []Reminder{
		{ID: 1, Status: StatusPending, ScheduledTime: now.Add(-time.Hour)},
		{ID: 2, Status: StatusSent, ScheduledTime: now.Add(-time.Hour)},
		{ID: 3, Status: StatusSnoozed, ScheduledTime: now.Add(-time.Hour)},
		{ID: 4, Status: StatusPending, ScheduledTime: now},
		{ID: 5, Status: StatusPending, ScheduledTime: now.Add(time.Second)},
	}

	assert.Equal(t, []int64{1, 4}, ids(ScanDue(snapshot, now)))
}

func TestScanDue_Idempotent(t *testing.T) {
	now := time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)
	snapshot := []Reminder{
		{ID: 1, Status: StatusPending, ScheduledTime: now.Add(-time.Minute)},
		{ID: 2, Status: StatusPending, ScheduledTime: now.Add(time.Minute)},
	}

	first := ScanDue(snapshot, now)
	second := ScanDue(snapshot, now)
	assert.Equal(t, first, second)
	assert.Equal(t, StatusPending, snapshot[0].Status)
}

func TestScanDue_MonotonicCatchUp(t *testing.T) {
	base := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, time.Second, 10 * time.Hour, 23*time.Hour + 59*time.Minute} {
		due := base.Add(offset)
		r := []Reminder{{ID: 1, Status: StatusPending, ScheduledTime: due}}

		assert.Empty(t, ScanDue(r, due.Add(-time.Nanosecond)), "before %v", due)
		assert.Len(t, ScanDue(r, due), 1, "at %v", due)
		assert.Len(t, ScanDue(r, due.Add(time.Hour)), 1, "after %v", due)
	}
}

func TestScanDue_ReminderExample(t *testing.T) {
	r1 := Reminder{ID: 1, Title: "R1", Status: StatusPending,
		ScheduledTime: time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)}
	snapshot := []Reminder{r1}

	assert.Empty(t, ScanDue(snapshot, time.Date(2025, 12, 7, 9, 59, 59, 0, time.UTC)))

	due := ScanDue(snapshot, time.Date(2025, 12, 7, 10, 0, 1, 0, time.UTC))
	require.Len(t, due, 1)

	snapshot[0].Status = StatusSent
	assert.Empty(t, ScanDue(snapshot, time.Date(2025, 12, 7, 10, 5, 0, 0, time.UTC)))
}

func TestScanDue_Empty(t *testing.T) {
	assert.Empty(t, ScanDue(nil, time.Now()))
}
