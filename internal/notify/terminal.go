package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

// Terminal prints notifications as styled single lines, toast-style.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	plain bool
}

// NewTerminal creates a terminal notifier. plain disables styling.
func NewTerminal(out io.Writer, plain bool) *Terminal {
	return &Terminal{out: out, plain: plain}
}

func (t *Terminal) Notify(kind Kind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.render(kind, message))
}

func (t *Terminal) render(kind Kind, message string) string {
	var icon string
	var style lipgloss.Style
	switch kind {
	case KindSuccess:
		icon, style = "✓", successStyle
	case KindError:
		icon, style = "✗", errorStyle
	default:
		icon, style = "•", infoStyle
	}
	line := icon + " " + message
	if t.plain {
		return line
	}
	return style.Render(line)
}
