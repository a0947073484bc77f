package timeline

import "time"

// DefaultItemDuration is applied to items with no end, or an end that does
// not come after the start.
const DefaultItemDuration = 30 * time.Minute

// Kind classifies an interval of the day.
type Kind string

const (
	Free     Kind = "free"
	Occupied Kind = "occupied"
)

// Item is an already-scheduled task or event on a given day.
type Item struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"` // zero means absent
	Title string    `json:"title"`
}

// Interval is a contiguous span of the day.
type Interval struct {
	Kind  Kind      `json:"kind"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"` // Occupied only
	Fits  bool      `json:"fits"`            // Free only
}

// DurationMinutes returns the whole minutes between Start and End.
func (iv Interval) DurationMinutes() int {
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// Timeline is the ordered partition of one day.
type Timeline struct {
	Day       time.Time  `json:"day"`
	Requested int        `json:"requested_minutes"`
	Intervals []Interval `json:"intervals"`
}

// Free returns only the free intervals, in order.
func (t Timeline) Free() []Interval {
	return t.filter(Free)
}

// Occupied returns only the occupied intervals, in order.
func (t Timeline) Occupied() []Interval {
	return t.filter(Occupied)
}

// FirstFit returns the earliest free interval that can hold the requested
// duration.
func (t Timeline) FirstFit() (Interval, bool) {
	for _, iv := range t.Intervals {
		if iv.Kind == Free && iv.Fits {
			return iv, true
		}
	}
	return Interval{}, false
}

func (t Timeline) filter(k Kind) []Interval {
	var out []Interval
	for _, iv := range t.Intervals {
		if iv.Kind == k {
			out = append(out, iv)
		}
	}
	return out
}
