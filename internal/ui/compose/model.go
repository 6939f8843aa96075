package compose

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1D9BF0")).Padding(1, 2, 0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 2)
	fieldStyle = lipgloss.NewStyle().Padding(0, 2)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Padding(1, 2, 0, 2)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(1, 2, 0, 2)
)

const maxTitleLen = 300

// Model is the post editor, shared by create and edit.
type Model struct {
	title      textinput.Model
	body       textarea.Model
	editing    *api.Post
	focusBody  bool
	submitting bool
	errMsg     string
	client     *api.Client
	width      int
	height     int
}

// New creates the editor. A non-nil edit pre-fills the form and makes
// submit update that post instead of creating one.
func New(client *api.Client, edit *api.Post) Model {
	title := textinput.New()
	title.Placeholder = "What's happening?"
	title.CharLimit = maxTitleLen
	title.Width = 60
	title.Focus()

	body := textarea.New()
	body.Placeholder = "Say more (optional)"
	body.SetWidth(60)
	body.SetHeight(8)
	body.CharLimit = 0

	if edit != nil {
		title.SetValue(edit.Title)
		body.SetValue(edit.Content)
	}

	return Model{title: title, body: body, editing: edit, client: client}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fieldWidth := w - 6
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	m.title.Width = fieldWidth
	m.body.SetWidth(fieldWidth)
	bodyHeight := h - 12
	if bodyHeight < 4 {
		bodyHeight = 4
	}
	m.body.SetHeight(bodyHeight)
}

// Editing reports whether the form edits an existing post.
func (m Model) Editing() bool {
	return m.editing != nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostCreatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case messages.PostUpdatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if m.focusBody {
				m.body.Blur()
				m.focusBody = false
				return m, m.title.Focus()
			}
			m.title.Blur()
			m.focusBody = true
			return m, m.body.Focus()

		case "enter":
			if !m.focusBody {
				m.title.Blur()
				m.focusBody = true
				return m, m.body.Focus()
			}

		case "ctrl+s":
			return m.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	cmds = append(cmds, cmd)
	m.body, cmd = m.body.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (Model, tea.Cmd) {
	title := strings.TrimSpace(m.title.Value())
	content := strings.TrimSpace(m.body.Value())
	if title == "" {
		m.errMsg = "A title is required"
		return m, nil
	}
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	client := m.client

	if m.editing != nil {
		postID := m.editing.ID
		return m, func() tea.Msg {
			post, err := client.UpdatePost(context.Background(), postID, title, content)
			return messages.PostUpdatedMsg{Post: post, Err: err}
		}
	}
	return m, func() tea.Msg {
		post, err := client.CreatePost(context.Background(), title, content)
		return messages.PostCreatedMsg{Post: post, Err: err}
	}
}

// View renders the editor.
func (m Model) View() string {
	heading := "New post"
	if m.editing != nil {
		heading = "Edit post"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(heading) + "\n\n")
	sb.WriteString(labelStyle.Render("Title") + "\n")
	sb.WriteString(fieldStyle.Render(m.title.View()) + "\n\n")
	sb.WriteString(labelStyle.Render("Body") + "\n")
	sb.WriteString(fieldStyle.Render(m.body.View()) + "\n")
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		sb.WriteString(hintStyle.Render("Posting...") + "\n")
	}
	sb.WriteString(hintStyle.Render("tab: switch field   ctrl+s: post   esc: discard"))
	return sb.String()
}
