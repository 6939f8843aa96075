package userprofile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/config"
	"github.com/astrovine/horizon/internal/interactions"
	"github.com/astrovine/horizon/internal/render"
	"github.com/astrovine/horizon/internal/ui/messages"
	"github.com/astrovine/horizon/internal/ui/postlist"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(1, 2, 0, 2)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 2)
	bioStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E7E9EA")).Padding(1, 2, 0, 2)
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1D9BF0")).Padding(1, 2, 0, 2)
	followStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")).Padding(0, 2)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(1, 2)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Padding(1, 2)
)

// Model shows another user's profile with their recent posts. Follows
// go straight to the backend and only update the view on success.
type Model struct {
	userID    int
	profile   *api.Profile
	posts     list.Model
	votes     *interactions.Store
	loading   bool
	following bool
	errMsg    string

	client  *api.Client
	cache   *cache.DB
	cfg     config.Config
	session *auth.Session
	width   int
	height  int
}

// New creates a profile view for userID.
func New(userID int, cfg config.Config, client *api.Client, db *cache.DB, session *auth.Session) Model {
	votes := interactions.NewStore()

	l := list.New(nil, postlist.Delegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return Model{
		userID:  userID,
		posts:   l,
		votes:   votes,
		loading: true,
		client:  client,
		cache:   db,
		cfg:     cfg,
		session: session,
	}
}

// Init fetches the profile and the user's posts together.
func (m Model) Init() tea.Cmd {
	userID := m.userID
	client := m.client
	db := m.cache
	pageSize := m.cfg.PageSize
	return func() tea.Msg {
		var profile *api.Profile
		var posts []api.Post

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			profile, err = client.GetProfile(ctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			posts, err = client.UserPosts(ctx, userID, pageSize, 0)
			return err
		})
		if err := g.Wait(); err != nil {
			// A stale profile still beats an error screen.
			if cached, _, cacheErr := db.GetProfile(userID, 0); cacheErr == nil && cached != nil {
				return messages.UserLoadedMsg{UserID: userID, Profile: cached, Err: err}
			}
			return messages.UserLoadedMsg{UserID: userID, Err: err}
		}
		db.PutProfile(profile)
		return messages.UserLoadedMsg{UserID: userID, Profile: profile, Posts: posts}
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	headerLines := strings.Count(m.renderHeader(), "\n") + 1
	listHeight := h - headerLines
	if listHeight < 3 {
		listHeight = 3
	}
	m.posts.SetSize(w, listHeight)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.UserLoadedMsg:
		if msg.UserID != m.userID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil && msg.Profile == nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.profile = msg.Profile
		m.following = msg.Profile.IsFollowing
		m.votes = interactions.NewStore()
		items := make([]list.Item, 0, len(msg.Posts))
		for _, p := range msg.Posts {
			m.votes.SeedOne(p.ID, p.Votes)
			items = append(items, postlist.NewPostItem(p, m.votes))
		}
		cmd := m.posts.SetItems(items)
		m.SetSize(m.width, m.height)
		return m, cmd

	case messages.FollowResultMsg:
		if msg.UserID != m.userID {
			return m, nil
		}
		if msg.Err != nil {
			return m, toastError("Follow failed", msg.Err)
		}
		m.following = msg.Following
		if m.profile != nil {
			if msg.Following {
				m.profile.FollowersCount++
			} else if m.profile.FollowersCount > 0 {
				m.profile.FollowersCount--
			}
		}
		text := "Followed @" + m.profile.Username
		if !msg.Following {
			text = "Unfollowed @" + m.profile.Username
		}
		return m, toast(text, messages.ToastSuccess)

	case messages.VoteResultMsg:
		if !m.votes.Pending(msg.PostID) {
			return m, nil
		}
		if msg.Err != nil {
			m.votes.Rollback(msg.PostID)
			return m, toastError("Failed to vote", msg.Err)
		}
		m.votes.Confirm(msg.PostID)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.posts.SelectedItem().(postlist.PostItem); ok {
				id := item.Post.ID
				return m, func() tea.Msg { return messages.OpenPostMsg{PostID: id} }
			}
			return m, nil

		case "f":
			return m.toggleFollow()

		case "v":
			return m.toggleVote()

		case "ctrl+r":
			m.loading = true
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	m.posts, cmd = m.posts.Update(msg)
	return m, cmd
}

func (m Model) toggleFollow() (Model, tea.Cmd) {
	if m.profile == nil {
		return m, nil
	}
	if !m.session.LoggedIn() {
		return m, func() tea.Msg { return messages.OpenLoginMsg{} }
	}
	if m.session.User.ID == m.userID {
		return m, nil
	}

	client := m.client
	userID := m.userID
	username := m.profile.Username
	if m.following {
		return m, func() tea.Msg {
			err := client.Unfollow(context.Background(), userID)
			return messages.FollowResultMsg{UserID: userID, Following: false, Err: err}
		}
	}
	return m, func() tea.Msg {
		err := client.Follow(context.Background(), username)
		return messages.FollowResultMsg{UserID: userID, Following: true, Err: err}
	}
}

func (m Model) toggleVote() (Model, tea.Cmd) {
	item, ok := m.posts.SelectedItem().(postlist.PostItem)
	if !ok {
		return m, nil
	}
	if !m.session.LoggedIn() {
		return m, func() tea.Msg { return messages.OpenLoginMsg{} }
	}
	dir, ok := m.votes.Toggle(item.Post.ID)
	if !ok {
		return m, nil
	}
	client := m.client
	postID := item.Post.ID
	return m, func() tea.Msg {
		err := client.VotePost(context.Background(), postID, dir)
		return messages.VoteResultMsg{PostID: postID, Err: err}
	}
}

// View renders the profile and post list.
func (m Model) View() string {
	if m.loading {
		return hintStyle.Render("Loading profile...")
	}
	if m.errMsg != "" {
		return errStyle.Render("Error: " + m.errMsg)
	}
	if m.profile == nil {
		return hintStyle.Render("User not found.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.posts.View())
}

// UserID returns the id this view was opened for.
func (m Model) UserID() int {
	return m.userID
}

func (m Model) renderHeader() string {
	if m.profile == nil {
		return ""
	}
	p := m.profile

	var parts []string
	name := nameStyle.Render(p.DisplayName())
	parts = append(parts, name)
	parts = append(parts, metaStyle.Render("@"+p.Username))
	if m.following {
		parts = append(parts, followStyle.Render("✓ Following"))
	}
	if p.Bio != "" {
		parts = append(parts, bioStyle.Render(render.ToText(p.Bio, m.width-4)))
	}
	parts = append(parts, statStyle.Render(fmt.Sprintf(
		"%d posts   %d followers   %d following",
		p.PostsCount, p.FollowersCount, p.FollowingCount,
	)))
	parts = append(parts, hintStyle.Render("enter: open post  v: vote  f: follow/unfollow  esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func toast(text string, variant messages.ToastVariant) tea.Cmd {
	return func() tea.Msg {
		return messages.ToastMsg{Text: text, Variant: variant}
	}
}

func toastError(prefix string, err error) tea.Cmd {
	text := prefix
	if err != nil {
		text += ": " + err.Error()
	}
	return toast(text, messages.ToastError)
}
