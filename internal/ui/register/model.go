package register

import (
	"context"
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

const (
	fieldName = iota
	fieldUsername
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Username", "Email", "Password", "Confirm password"}

// Model is the account creation form.
type Model struct {
	inputs     [fieldCount]textinput.Model
	focusIdx   int
	submitting bool
	errMsg     string
	session    *auth.Session
	client     *api.Client
	width      int
	height     int
}

// New creates a registration form.
func New(session *auth.Session, client *api.Client) Model {
	m := Model{session: session, client: client}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 128
		in.Width = 40
		m.inputs[i] = in
	}
	m.inputs[fieldName].Placeholder = "Ada Lovelace"
	m.inputs[fieldUsername].Placeholder = "ada"
	m.inputs[fieldEmail].Placeholder = "you@example.com"
	m.inputs[fieldEmail].CharLimit = 254
	for _, i := range []int{fieldPassword, fieldConfirm} {
		m.inputs[i].EchoMode = textinput.EchoPassword
		m.inputs[i].EchoCharacter = '•'
	}
	m.inputs[fieldName].Focus()
	return m
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
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "enter":
			if msg.String() == "enter" && m.focusIdx == fieldCount-1 {
				return m.submit()
			}
			return m.focus((m.focusIdx + 1) % fieldCount)

		case "shift+tab", "up":
			return m.focus((m.focusIdx + fieldCount - 1) % fieldCount)

		case "ctrl+s":
			return m.submit()
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) focus(idx int) (Model, tea.Cmd) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	return m, m.inputs[idx].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	params := api.RegisterParams{
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	switch {
	case params.Name == "" || params.Username == "" || params.Email == "" || params.Password == "":
		m.errMsg = "All fields are required"
		return m, nil
	case !strings.Contains(params.Email, "@"):
		m.errMsg = "That does not look like an email address"
		return m, nil
	case params.Password != m.inputs[fieldConfirm].Value():
		m.errMsg = "Passwords do not match"
		return m, nil
	case m.submitting:
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	session := m.session
	client := m.client
	return m, func() tea.Msg {
		err := session.Register(context.Background(), client, params)
		return messages.LoginResultMsg{Err: err}
	}
}

// View renders the form.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Create account") + "\n\n")
	for i := range m.inputs {
		sb.WriteString(labelStyle.Render(fieldLabels[i]) + "\n")
		sb.WriteString(fieldStyle.Render(m.inputs[i].View()) + "\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		sb.WriteString(hintStyle.Render("Creating account...") + "\n")
	}
	sb.WriteString(hintStyle.Render("tab: next field   ctrl+s: create   esc: back"))
	return sb.String()
}
