// Package timeline partitions a calendar day into free and occupied
// intervals around already-scheduled items.
package timeline

import (
	"slices"
	"time"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns midnight of the following day. Days are half-open.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// NormalizeEnd returns end, or start plus DefaultItemDuration when end is
// absent or not after start.
func NormalizeEnd(start, end time.Time) time.Time {
	if end.IsZero() || !end.After(start) {
		return start.Add(DefaultItemDuration)
	}
	return end
}

// Fits reports whether a free interval can hold requestedMinutes.
func Fits(iv Interval, requestedMinutes int) bool {
	return requestedMinutes <= iv.DurationMinutes()
}

// SuggestStart returns the start time a new task gets when the caller picks
// iv. Only free intervals can be picked.
func SuggestStart(iv Interval) (time.Time, bool) {
	if iv.Kind != Free {
		return time.Time{}, false
	}
	return iv.Start, true
}

// Compute partitions day into an ordered sequence of free and occupied
// intervals covering [StartOfDay(day), EndOfDay(day)). items is not modified.
//
// Items are sorted by start with ties kept in input order. Overlapping items
// are neither merged nor rejected: an occupied interval is clipped so it never
// begins before the end of the previous one, and dropped if nothing is left.
func Compute(day time.Time, items []Item, requestedMinutes int) Timeline {
	dayStart := StartOfDay(day)
	dayEnd := EndOfDay(day)

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return a.Start.Compare(b.Start)
	})

	tl := Timeline{Day: dayStart, Requested: requestedMinutes}
	emit := func(iv Interval) {
		if !iv.Start.Before(iv.End) {
			return
		}
		if iv.Kind == Free {
			iv.Fits = Fits(iv, requestedMinutes)
		}
		tl.Intervals = append(tl.Intervals, iv)
	}

	cursor := dayStart
	for _, it := range sorted {
		end := NormalizeEnd(it.Start, it.End)

		if it.Start.After(cursor) {
			emit(Interval{Kind: Free, Start: cursor, End: minTime(it.Start, dayEnd)})
		}

		emit(Interval{
			Kind:  Occupied,
			Start: clamp(maxTime(it.Start, cursor), dayStart, dayEnd),
			End:   clamp(end, dayStart, dayEnd),
			Label: it.Title,
		})

		cursor = maxTime(cursor, end)
	}

	if cursor.Before(dayEnd) {
		emit(Interval{Kind: Free, Start: cursor, End: dayEnd})
	}

	return tl
}

func clamp(t, lo, hi time.Time) time.Time {
	return minTime(maxTime(t, lo), hi)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
