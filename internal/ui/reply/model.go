package reply

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1D9BF0")).Padding(1, 2, 0, 2)
	fieldStyle = lipgloss.NewStyle().Padding(0, 2)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Padding(1, 2, 0, 2)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(1, 2, 0, 2)
)

// Model is the comment form. With a parent id it posts a nested reply,
// without one a top-level comment.
type Model struct {
	body       textarea.Model
	postID     int
	parentID   int
	submitting bool
	errMsg     string
	client     *api.Client
	width      int
	height     int
}

// New creates the comment form.
func New(client *api.Client, postID, parentID int) Model {
	body := textarea.New()
	body.Placeholder = "Write a reply"
	body.SetWidth(60)
	body.SetHeight(6)
	body.CharLimit = 0
	body.Focus()

	return Model{body: body, postID: postID, parentID: parentID, client: client}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fieldWidth := w - 6
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	m.body.SetWidth(fieldWidth)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.CommentAddedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	body := strings.TrimSpace(m.body.Value())
	if body == "" {
		m.errMsg = "Reply cannot be empty"
		return m, nil
	}
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	client := m.client
	postID := m.postID
	parentID := m.parentID
	return m, func() tea.Msg {
		var comment *api.Comment
		var err error
		if parentID == 0 {
			comment, err = client.AddComment(context.Background(), postID, body)
		} else {
			comment, err = client.Reply(context.Background(), parentID, body)
		}
		return messages.CommentAddedMsg{PostID: postID, Comment: comment, Err: err}
	}
}

// View renders the form.
func (m Model) View() string {
	heading := "Comment"
	if m.parentID != 0 {
		heading = "Reply"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(heading) + "\n\n")
	sb.WriteString(fieldStyle.Render(m.body.View()) + "\n")
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		sb.WriteString(hintStyle.Render("Posting...") + "\n")
	}
	sb.WriteString(hintStyle.Render("ctrl+s: post   esc: discard"))
	return sb.String()
}
