package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1D9BF0")).Padding(1, 2, 0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 2)
	fieldStyle = lipgloss.NewStyle().Padding(0, 2)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Padding(1, 2, 0, 2)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(1, 2, 0, 2)
)

// Model is the login form.
type Model struct {
	email      textinput.Model
	password   textinput.Model
	focusIdx   int
	submitting bool
	errMsg     string
	session    *auth.Session
	client     *api.Client
	width      int
	height     int
}

// New creates a login form.
func New(session *auth.Session, client *api.Client) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	return Model{email: email, password: password, session: session, client: client}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = loginErrorText(msg.Err)
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "down", "up":
			m.focusIdx = (m.focusIdx + 1) % 2
			if m.focusIdx == 0 {
				m.password.Blur()
				return m, m.email.Focus()
			}
			m.email.Blur()
			return m, m.password.Focus()

		case "enter", "ctrl+s":
			return m.submit()

		case "ctrl+n":
			return m, func() tea.Msg { return messages.OpenRegisterMsg{} }
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errMsg = "Email and password are required"
		return m, nil
	}
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	session := m.session
	client := m.client
	return m, func() tea.Msg {
		err := session.Login(context.Background(), client, email, password)
		return messages.LoginResultMsg{Err: err}
	}
}

// View renders the form.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Sign in") + "\n\n")
	sb.WriteString(labelStyle.Render("Email") + "\n")
	sb.WriteString(fieldStyle.Render(m.email.View()) + "\n\n")
	sb.WriteString(labelStyle.Render("Password") + "\n")
	sb.WriteString(fieldStyle.Render(m.password.View()) + "\n")
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		sb.WriteString(hintStyle.Render("Signing in...") + "\n")
	}
	sb.WriteString(hintStyle.Render("enter: sign in   ctrl+n: create account   esc: back"))
	return sb.String()
}

func loginErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
		return "Invalid email or password"
	}
	return err.Error()
}
