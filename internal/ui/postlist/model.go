package postlist

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/config"
	"github.com/astrovine/horizon/internal/interactions"
	"github.com/astrovine/horizon/internal/ui/messages"
)

// Model is the post list view: one bubbles list re-seeded on tab
// switches, with an optimistic vote store scoped to the view.
type Model struct {
	list        list.Model
	tab         messages.Tab
	searchInput textinput.Model
	searching   bool
	search      string
	hasMore     bool
	votes       *interactions.Store

	client  *api.Client
	cache   *cache.DB
	session *auth.Session
	cfg     config.Config
	loading bool
	width   int
	height  int
}

// New creates the post list on the Home tab.
func New(cfg config.Config, client *api.Client, db *cache.DB, session *auth.Session) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = "Home"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	search := textinput.New()
	search.Placeholder = "search posts"
	search.Width = 30

	return Model{
		list:        l,
		tab:         messages.TabHome,
		searchInput: search,
		votes:       interactions.NewStore(),
		client:      client,
		cache:       db,
		session:     session,
		cfg:         cfg,
	}
}

// Init loads the initial page.
func (m Model) Init() tea.Cmd {
	return m.loadPosts(false, false)
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.searching {
		h -= 2
	}
	m.list.SetSize(w, h)
}

// Tab returns the active tab.
func (m Model) Tab() messages.Tab {
	return m.tab
}

// Searching reports whether the search input is capturing keys.
func (m Model) Searching() bool {
	return m.searching
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostsLoadedMsg:
		return m.onPostsLoaded(msg)

	case messages.SwitchTabMsg:
		m.tab = msg.Tab
		m.search = ""
		m.searching = false
		m.searchInput.SetValue("")
		m.votes = interactions.NewStore()
		m.list.Title = tabTitle(m.tab) + " (loading...)"
		m.loading = true
		m.SetSize(m.width, m.height)
		return m, m.loadPosts(false, false)

	case messages.PostCreatedMsg:
		if msg.Err == nil && msg.Post != nil {
			// Canonical record, prepended so newest-first holds.
			m.votes.SeedOne(msg.Post.ID, msg.Post.Votes)
			items := append([]list.Item{PostItem{Post: *msg.Post, votes: m.votes}}, m.list.Items()...)
			m.list.SetItems(items)
			m.cache.PutPost(msg.Post)
		}
		return m, nil

	case messages.PostUpdatedMsg:
		if msg.Err == nil && msg.Post != nil {
			items := m.list.Items()
			for i, it := range items {
				if pi, ok := it.(PostItem); ok && pi.Post.ID == msg.Post.ID {
					updated := *msg.Post
					updated.Votes = pi.Post.Votes
					updated.CommentsCount = pi.Post.CommentsCount
					items[i] = PostItem{Post: updated, votes: m.votes}
					break
				}
			}
			m.list.SetItems(items)
			m.cache.PutPost(msg.Post)
		}
		return m, nil

	case messages.PostDeletedMsg:
		if msg.Err != nil {
			return m, toastError("Failed to delete post", msg.Err)
		}
		m.removePost(msg.PostID)
		m.votes.Forget(msg.PostID)
		m.cache.DeletePost(msg.PostID)
		return m, toast("Post deleted", messages.ToastSuccess)

	case messages.VoteResultMsg:
		// Another view's toggle for a post this store never flipped.
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
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(PostItem); ok {
				id := item.Post.ID
				return m, func() tea.Msg { return messages.OpenPostMsg{PostID: id} }
			}
		case "v":
			return m.toggleVote()
		case "d":
			return m.deleteSelected()
		case "p":
			if item, ok := m.list.SelectedItem().(PostItem); ok {
				id := item.Post.UserID
				return m, func() tea.Msg { return messages.OpenUserMsg{UserID: id} }
			}
		case "m":
			if m.hasMore && !m.loading {
				m.loading = true
				return m, m.loadPosts(true, false)
			}
		case "/":
			if m.tab == messages.TabExplore {
				m.searching = true
				m.searchInput.Focus()
				m.SetSize(m.width, m.height)
				return m, textinput.Blink
			}
		case "ctrl+r":
			m.loading = true
			m.list.Title = tabTitle(m.tab) + " (refreshing...)"
			return m, m.loadPosts(false, true)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.loading = true
		m.SetSize(m.width, m.height)
		return m, m.loadPosts(false, true)
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.SetSize(m.width, m.height)
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) onPostsLoaded(msg messages.PostsLoadedMsg) (Model, tea.Cmd) {
	// Late responses for a tab we already left are dropped.
	if msg.Tab != m.tab {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.list.Title = tabTitle(m.tab)
		return m, toastError("Failed to load posts", msg.Err)
	}

	var items []list.Item
	if msg.Append {
		items = m.list.Items()
	}
	for _, post := range msg.Posts {
		m.votes.SeedOne(post.ID, post.Votes)
		items = append(items, PostItem{Post: post, votes: m.votes})
	}
	m.list.SetItems(items)
	m.hasMore = msg.HasMore
	m.list.Title = tabTitle(m.tab)
	if m.search != "" {
		m.list.Title += " · " + m.search
	}
	return m, nil
}

func (m Model) toggleVote() (Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(PostItem)
	if !ok {
		return m, nil
	}
	if !m.session.LoggedIn() {
		return m, func() tea.Msg { return messages.OpenLoginMsg{} }
	}
	dir, ok := m.votes.Toggle(item.Post.ID)
	if !ok {
		// A toggle for this post is still in flight.
		return m, nil
	}
	client := m.client
	postID := item.Post.ID
	return m, func() tea.Msg {
		err := client.VotePost(context.Background(), postID, dir)
		return messages.VoteResultMsg{PostID: postID, Err: err}
	}
}

func (m Model) deleteSelected() (Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(PostItem)
	if !ok {
		return m, nil
	}
	if !m.session.LoggedIn() || m.session.User.ID != item.Post.UserID {
		return m, toast("You can only delete your own posts", messages.ToastDefault)
	}
	// Pessimistic: the list keeps the post until the backend confirms.
	client := m.client
	postID := item.Post.ID
	return m, func() tea.Msg {
		err := client.DeletePost(context.Background(), postID)
		return messages.PostDeletedMsg{PostID: postID, Err: err}
	}
}

func (m *Model) removePost(postID int) {
	items := m.list.Items()
	kept := items[:0]
	for _, it := range items {
		if pi, ok := it.(PostItem); ok && pi.Post.ID == postID {
			continue
		}
		kept = append(kept, it)
	}
	m.list.SetItems(kept)
}

// View renders the post list.
func (m Model) View() string {
	if m.searching {
		header := "/" + m.searchInput.View()
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.list.View())
	}
	return m.list.View()
}

func (m Model) loadPosts(appendPage bool, force bool) tea.Cmd {
	tab := m.tab
	client := m.client
	db := m.cache
	session := m.session
	cfg := m.cfg
	search := m.search
	skip := 0
	if appendPage {
		skip = len(m.list.Items())
	}

	return func() tea.Msg {
		// First pages of the plain tabs come from cache when fresh.
		cacheable := !appendPage && search == "" && tab != messages.TabExplore
		if cacheable && !force {
			if posts, fresh, _ := db.GetPostList(string(tab), cfg.PostListTTL); fresh && len(posts) > 0 {
				return messages.PostsLoadedMsg{Tab: tab, Posts: posts, HasMore: len(posts) == cfg.PageSize}
			}
		}

		ctx := context.Background()
		posts, err := fetchTab(ctx, client, session, cfg, tab, skip, search)
		if err != nil {
			// Serve the stale page rather than nothing.
			if cacheable {
				if cached, _, cacheErr := db.GetPostList(string(tab), cfg.PostListTTL); cacheErr == nil && len(cached) > 0 {
					logrus.WithError(err).Warn("serving cached posts after fetch failure")
					return messages.PostsLoadedMsg{Tab: tab, Posts: cached}
				}
			}
			return messages.PostsLoadedMsg{Tab: tab, Err: err}
		}

		pageSize := cfg.PageSize
		if tab == messages.TabExplore {
			pageSize = cfg.ExplorePage
		}
		if cacheable {
			db.PutPosts(string(tab), posts)
		}
		return messages.PostsLoadedMsg{
			Tab:     tab,
			Append:  appendPage,
			Posts:   posts,
			HasMore: len(posts) == pageSize,
		}
	}
}

func fetchTab(ctx context.Context, client *api.Client, session *auth.Session, cfg config.Config, tab messages.Tab, skip int, search string) ([]api.Post, error) {
	switch tab {
	case messages.TabFollowing:
		return client.Feed(ctx, cfg.PageSize, skip)
	case messages.TabExplore:
		posts, err := client.ListPosts(ctx, cfg.ExplorePage, skip, search)
		if err != nil {
			return nil, err
		}
		// Explore surfaces popular posts first.
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Votes > posts[j].Votes
		})
		return posts, nil
	case messages.TabMine:
		if session.User == nil {
			return nil, nil
		}
		return client.UserPosts(ctx, session.User.ID, cfg.PageSize, skip)
	default:
		return client.ListPosts(ctx, cfg.PageSize, skip, "")
	}
}

func tabTitle(t messages.Tab) string {
	switch t {
	case messages.TabFollowing:
		return "Following"
	case messages.TabExplore:
		return "Explore"
	case messages.TabMine:
		return "My Posts"
	default:
		return "Home"
	}
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
