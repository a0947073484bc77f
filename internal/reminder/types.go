package reminder

import (
	"errors"
	"time"
)

// Priority levels for reminders.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Status is a reminder's lifecycle state.
//
//	pending -> sent
//	pending -> snoozed -> pending
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusSnoozed Status = "snoozed"
)

// ErrNotFound is returned when no reminder has the requested ID.
var ErrNotFound = errors.New("reminder not found")

// Reminder is a user-defined point-in-time alert.
type Reminder struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Notes         string     `json:"notes,omitempty"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Priority      string     `json:"priority"`
	Status        Status     `json:"status"`
	SnoozedUntil  *time.Time `json:"snoozed_until,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusSent, StatusSnoozed:
		return true
	}
	return false
}
