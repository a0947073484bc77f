package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Warm yellow
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)
)

// Terminal prints notifications to a writer, typically stdout of the
// watch daemon.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool
}

func NewTerminal(w io.Writer, colored bool) *Terminal {
	return &Terminal{w: w, colored: colored}
}

func (t *Terminal) Available() bool { return t.w != nil }

func (t *Terminal) Notify(_ context.Context, title, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := "⏰ " + title
	if t.colored {
		line = titleStyle.Render(line)
	}
	if body != "" {
		if t.colored {
			line += "  " + bodyStyle.Render(body)
		} else {
			line += "  " + body
		}
	}

	if _, err := fmt.Fprintln(t.w, line); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
