package reminder

import "time"

// IsDue reports whether r is pending and scheduled at or before now.
func IsDue(r Reminder, now time.Time) bool {
	return r.Status == StatusPending && !r.ScheduledTime.After(now)
}

// ScanDue returns the reminders in the snapshot that are due at now, in
// snapshot order. It never modifies its input.
func ScanDue(reminders []Reminder, now time.Time) []Reminder {
	var due []Reminder
	for _, r := range reminders {
		if IsDue(r, now) {
			due = append(due, r)
		}
	}
	return due
}
