package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/notexe/dayplan/internal/reminder"
	"github.com/notexe/dayplan/internal/timeline"
)

// AgendaMarkdown renders a day's timeline and its reminders as Markdown.
func AgendaMarkdown(tl timeline.Timeline, reminders []reminder.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tl.Day.Format("Monday, 2 January 2006"))

	b.WriteString("| Time | | Length |\n|---|---|---|\n")
	for _, iv := range tl.Intervals {
		span := clockLabel(iv.Start, tl.Day) + "–" + clockLabel(iv.End, tl.Day)
		what := "*free*"
		if iv.Kind == timeline.Occupied {
			what = "**" + escapeCell(iv.Label) + "**"
		} else if iv.Fits {
			what = fmt.Sprintf("*free* ✓ fits %dm", tl.Requested)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", span, what, formatMinutes(iv.DurationMinutes()))
	}

	var today []reminder.Reminder
	for _, r := range reminders {
		t := r.ScheduledTime.In(tl.Day.Location())
		if !t.Before(tl.Day) && t.Before(timeline.EndOfDay(tl.Day)) {
			today = append(today, r)
		}
	}
	if len(today) > 0 {
		b.WriteString("\n## Reminders\n\n")
		for _, r := range today {
			t := r.ScheduledTime.In(tl.Day.Location())
			item := fmt.Sprintf("%s %s", t.Format(clockLayout), r.Title)
			if r.Status == reminder.StatusSent {
				item = "~~" + item + "~~"
			}
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	return b.String()
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour cannot.
func RenderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimSpace(rendered)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
