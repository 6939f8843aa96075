package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1D9BF0")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#555555")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)
)

type tab struct {
	label string
	tab   messages.Tab
}

var tabs = []tab{
	{"Home", messages.TabHome},
	{"Following", messages.TabFollowing},
	{"Explore", messages.TabExplore},
	{"My Posts", messages.TabMine},
}

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	activeTab  messages.Tab
	username   string
	statusText string
}

// New creates a new status bar.
func New() Model {
	return Model{activeTab: messages.TabHome}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetActiveTab sets the highlighted tab.
func (m *Model) SetActiveTab(t messages.Tab) {
	m.activeTab = t
}

// SetUser sets the logged-in username ("" when logged out).
func (m *Model) SetUser(username string) {
	m.username = username
}

// SetStatus sets a transient status message.
func (m *Model) SetStatus(text string) {
	m.statusText = text
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if status, ok := msg.(messages.StatusMsg); ok {
		m.statusText = status.Text
	}
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var tabsStr string
	for _, t := range tabs {
		if t.tab == m.activeTab {
			tabsStr += activeTabStyle.Render(t.label)
		} else {
			tabsStr += inactiveTabStyle.Render(t.label)
		}
	}

	var right string
	if m.statusText != "" {
		right += statusTextStyle.Render(m.statusText)
	}
	if m.username != "" {
		right += userStyle.Render("@" + m.username)
	} else {
		right += statusTextStyle.Render("L:login")
	}

	tabsWidth := lipgloss.Width(tabsStr)
	rightWidth := lipgloss.Width(right)
	gap := m.width - tabsWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, tabsStr, mid, right)
}
