package task

import (
	"errors"
	"time"

	"github.com/notexe/dayplan/internal/timeline"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("task not found")

// Task is a scheduled block of work.
type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Item converts the task into the partitioner's input. A missing end stays
// zero so the partitioner applies its default length.
func (t Task) Item() timeline.Item {
	it := timeline.Item{Start: t.Start, Title: t.Title}
	if t.End != nil {
		it.End = *t.End
	}
	return it
}
