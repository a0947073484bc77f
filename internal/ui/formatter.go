package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/dayplan/internal/reminder"
	"github.com/notexe/dayplan/internal/task"
	"github.com/notexe/dayplan/internal/timeline"
)

var (
	FreeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	FitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)

	OccupiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")) // Bright cyan

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)
)

const clockLayout = "15:04"

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

// FormatTimeline renders one line per interval.
func (f *Formatter) FormatTimeline(tl timeline.Timeline) string {
	var b strings.Builder
	b.WriteString(f.render(HeaderStyle, fmt.Sprintf("%s • looking for %d min", tl.Day.Format("Mon 2006-01-02"), tl.Requested)))
	b.WriteString("\n")

	for _, iv := range tl.Intervals {
		span := fmt.Sprintf("%s–%s", clockLabel(iv.Start, tl.Day), clockLabel(iv.End, tl.Day))
		length := f.render(DimStyle, fmt.Sprintf("(%s)", formatMinutes(iv.DurationMinutes())))

		switch iv.Kind {
		case timeline.Occupied:
			fmt.Fprintf(&b, "  %s  %s %s\n", span, f.render(OccupiedStyle, "■ "+iv.Label), length)
		default:
			mark := f.render(FreeStyle, "□ free")
			if iv.Fits {
				mark = f.render(FitStyle, "✓ free")
			}
			fmt.Fprintf(&b, "  %s  %s %s\n", span, mark, length)
		}
	}

	if first, ok := tl.FirstFit(); ok {
		start, _ := timeline.SuggestStart(first)
		b.WriteString(f.render(InfoStyle, "Suggested start: "+start.Format(clockLayout)))
	} else {
		b.WriteString(f.render(ErrorStyle, "No free slot fits."))
	}
	return b.String()
}

func (f *Formatter) FormatTasks(tasks []task.Task) string {
	if len(tasks) == 0 {
		return f.render(DimStyle, "No tasks.")
	}
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		end := timeline.NormalizeEnd(t.Start, timePtrValue(t.End))
		status := " "
		if t.Completed {
			status = "✓"
		}
		line := fmt.Sprintf("[%s] #%d %s–%s %s", status, t.ID, t.Start.Format(clockLayout), end.Format(clockLayout), t.Title)
		if t.Completed {
			line = f.render(DimStyle, line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatReminders(rs []reminder.Reminder, loc *time.Location) string {
	if len(rs) == 0 {
		return f.render(DimStyle, "No reminders.")
	}
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		when := r.ScheduledTime.In(loc).Format("2006-01-02 15:04")
		state := string(r.Status)
		if r.Status == reminder.StatusSnoozed && r.SnoozedUntil != nil {
			state += " until " + r.SnoozedUntil.In(loc).Format(clockLayout)
		}
		line := fmt.Sprintf("#%d %s  %s  [%s, %s]", r.ID, when, r.Title, r.Priority, state)
		switch r.Status {
		case reminder.StatusSent:
			line = f.render(DimStyle, line)
		case reminder.StatusPending:
			if r.Priority == reminder.PriorityHigh {
				line = f.render(InfoStyle, line)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatBox(content string) string {
	if f.colored {
		return BoxStyle.Render(content)
	}
	return content
}

func clockLabel(t, day time.Time) string {
	if t.Equal(timeline.EndOfDay(day)) {
		return "24:00"
	}
	return t.Format(clockLayout)
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func timePtrValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
