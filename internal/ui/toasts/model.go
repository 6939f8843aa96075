// Package toasts is the transient notification queue: severity-tagged
// messages that dismiss themselves after a timeout, in insertion order,
// several visible at once.
package toasts

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	defaultStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1B5E20")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)
)

type toast struct {
	id      int
	text    string
	variant messages.ToastVariant
}

// expireMsg fires when a toast's timer runs out. Carrying the id makes
// the timer cancelable in effect: a toast dismissed early just makes
// the late message a no-op.
type expireMsg struct{ id int }

// Model is the toast queue.
type Model struct {
	toasts   []toast
	nextID   int
	duration time.Duration
	width    int
}

// New creates a toast queue with the given auto-dismiss duration.
func New(duration time.Duration) Model {
	return Model{duration: duration}
}

// SetSize sets the render width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// Push appends a toast and schedules its dismissal.
func (m *Model) Push(text string, variant messages.ToastVariant) tea.Cmd {
	m.nextID++
	id := m.nextID
	m.toasts = append(m.toasts, toast{id: id, text: text, variant: variant})
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return expireMsg{id: id}
	})
}

// Dismiss removes the oldest toast.
func (m *Model) Dismiss() {
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Clear drops every toast, for view teardown.
func (m *Model) Clear() {
	m.toasts = nil
}

// Active reports whether any toast is visible.
func (m Model) Active() bool {
	return len(m.toasts) > 0
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expireMsg:
		m.remove(msg.id)
	case messages.ToastMsg:
		return m, m.Push(msg.Text, msg.Variant)
	}
	return m, nil
}

func (m *Model) remove(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// View renders the visible toasts, oldest first.
func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		var style lipgloss.Style
		switch t.variant {
		case messages.ToastSuccess:
			style = successStyle
		case messages.ToastError:
			style = errorStyle
		default:
			style = defaultStyle
		}
		lines = append(lines, style.MaxWidth(m.width).Render(t.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
