package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/render"
	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(1, 2, 0, 2)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 2)
	bioStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E7E9EA")).Padding(1, 2, 0, 2)
	statStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1D9BF0")).Padding(1, 2, 0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 2)
	fieldStyle = lipgloss.NewStyle().Padding(0, 2)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Padding(1, 2, 0, 2)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(1, 2, 0, 2)
)

const (
	fieldName = iota
	fieldUsername
	fieldLocation
	fieldBio
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Username", "Location", "Bio"}

// Model shows the signed-in user's profile and edits it in place.
type Model struct {
	session    *auth.Session
	client     *api.Client
	cache      *cache.DB
	editing    bool
	inputs     [fieldCount]textinput.Model
	focusIdx   int
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates the profile view for the current session user.
func New(session *auth.Session, client *api.Client, db *cache.DB) Model {
	m := Model{session: session, client: client, cache: db}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 160
		in.Width = 40
		m.inputs[i] = in
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Editing reports whether the edit form is capturing keystrokes.
func (m Model) Editing() bool {
	return m.editing
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ProfileSavedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		if msg.Profile != nil {
			m.session.SetUser(msg.Profile)
			m.cache.PutProfile(msg.Profile)
		}
		m.editing = false
		return m, toast("Profile updated", messages.ToastSuccess)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "e":
			return m.startEditing()
		case "x":
			return m, func() tea.Msg { return messages.ForceLogoutMsg{} }
		}
	}

	if m.editing {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) startEditing() (Model, tea.Cmd) {
	user := m.session.User
	if user == nil {
		return m, nil
	}
	m.inputs[fieldName].SetValue(user.Name)
	m.inputs[fieldUsername].SetValue(user.Username)
	m.inputs[fieldLocation].SetValue(user.Location)
	m.inputs[fieldBio].SetValue(user.Bio)
	m.editing = true
	m.errMsg = ""
	m.focusIdx = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m, m.inputs[0].Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.errMsg = ""
		return m, nil

	case "tab", "down", "enter":
		return m.focus((m.focusIdx + 1) % fieldCount)

	case "shift+tab", "up":
		return m.focus((m.focusIdx + fieldCount - 1) % fieldCount)

	case "ctrl+s":
		return m.submit()
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
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	if name == "" || username == "" {
		m.errMsg = "Name and username are required"
		return m, nil
	}
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""

	location := strings.TrimSpace(m.inputs[fieldLocation].Value())
	bio := strings.TrimSpace(m.inputs[fieldBio].Value())
	update := api.ProfileUpdate{
		Name:     &name,
		Username: &username,
		Location: &location,
		Bio:      &bio,
	}
	client := m.client
	return m, func() tea.Msg {
		profile, err := client.UpdateProfile(context.Background(), update)
		return messages.ProfileSavedMsg{Profile: profile, Err: err}
	}
}

// View renders the profile.
func (m Model) View() string {
	user := m.session.User
	if user == nil {
		return hintStyle.Render("Sign in to see your profile.")
	}
	if m.editing {
		return m.viewEditing()
	}

	var sb strings.Builder
	sb.WriteString(nameStyle.Render(user.DisplayName()) + "\n")
	sb.WriteString(metaStyle.Render("@"+user.Username) + "\n")
	if user.Location != "" {
		sb.WriteString(metaStyle.Render(user.Location) + "\n")
	}
	sb.WriteString(metaStyle.Render("Joined "+render.TimeAgo(user.CreatedAt.Time)) + "\n")
	if user.Bio != "" {
		sb.WriteString(bioStyle.Render(render.ToText(user.Bio, m.width-4)) + "\n")
	}
	sb.WriteString(statStyle.Render(fmt.Sprintf(
		"%d posts   %d followers   %d following",
		user.PostsCount, user.FollowersCount, user.FollowingCount,
	)) + "\n")
	sb.WriteString(hintStyle.Render("e: edit   x: sign out   esc: back"))
	return sb.String()
}

func (m Model) viewEditing() string {
	var sb strings.Builder
	sb.WriteString(nameStyle.Render("Edit profile") + "\n\n")
	for i := range m.inputs {
		sb.WriteString(labelStyle.Render(fieldLabels[i]) + "\n")
		sb.WriteString(fieldStyle.Render(m.inputs[i].View()) + "\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		sb.WriteString(hintStyle.Render("Saving...") + "\n")
	}
	sb.WriteString(hintStyle.Render("tab: next field   ctrl+s: save   esc: cancel"))
	return sb.String()
}

func toast(text string, variant messages.ToastVariant) tea.Cmd {
	return func() tea.Msg {
		return messages.ToastMsg{Text: text, Variant: variant}
	}
}
