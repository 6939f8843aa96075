package postview

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/config"
	"github.com/astrovine/horizon/internal/interactions"
	"github.com/astrovine/horizon/internal/render"
	"github.com/astrovine/horizon/internal/thread"
	"github.com/astrovine/horizon/internal/ui/messages"
)

var (
	depthColors = []lipgloss.Color{
		"#1D9BF0", "#828282", "#32CD32", "#FFD700", "#FF69B4", "#9370DB", "#20B2AA",
	}

	commentAuthorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1D9BF0")).Bold(true)
	commentMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	commentLikedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F91880"))
	commentSelStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	postHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	postMetaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 1)
	postBodyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#E7E9EA")).Padding(0, 1)
	separatorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

const scrollStep = 3

type commentOffset struct {
	startLine int
	endLine   int
}

// Model is the post detail view: the post header, its vote control,
// and the threaded comment list.
type Model struct {
	viewport    viewport.Model
	postID      int
	post        *api.Post
	comments    []api.Comment
	rows        []thread.Row
	offsets     []commentOffset
	selectedIdx int
	collapse    thread.CollapseState
	likes       *interactions.Store
	votes       *interactions.Store

	client  *api.Client
	cache   *cache.DB
	cfg     config.Config
	session *auth.Session
	loading bool
	width   int
	height  int
}

// New creates a post detail view.
func New(postID int, cfg config.Config, client *api.Client, db *cache.DB, session *auth.Session) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	return Model{
		viewport: vp,
		postID:   postID,
		collapse: make(thread.CollapseState),
		likes:    interactions.NewStore(),
		votes:    interactions.NewStore(),
		client:   client,
		cache:    db,
		cfg:      cfg,
		session:  session,
		loading:  true,
	}
}

// Init fetches the post, its comments, and the comment-likes map.
func (m Model) Init() tea.Cmd {
	postID := m.postID
	client := m.client
	db := m.cache
	cfg := m.cfg
	return func() tea.Msg {
		post, comments, likes, err := client.PostDetail(context.Background(), postID)
		if err != nil {
			return messages.PostDetailLoadedMsg{PostID: postID, Err: err}
		}
		if post == nil {
			// Paged out of the timeline; the cached copy still renders.
			post, _, _ = db.GetPost(postID, cfg.PostTTL)
		} else {
			db.PutPost(post)
		}
		return messages.PostDetailLoadedMsg{PostID: postID, Post: post, Comments: comments, Likes: likes}
	}
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostDetailLoadedMsg:
		// A response for a post we already navigated away from.
		if msg.PostID != m.postID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent("Error loading post: " + msg.Err.Error())
			return m, nil
		}
		m.post = msg.Post
		m.comments = msg.Comments
		m.likes = interactions.NewStore()
		m.likes.Seed(msg.Likes, nil)
		if m.post != nil {
			m.votes.SeedOne(m.post.ID, m.post.Votes)
		}
		m.resizeViewport()
		m.rebuildRows()
		m.rebuildContent()
		return m, nil

	case messages.CommentAddedMsg:
		if msg.PostID != m.postID || msg.Err != nil || msg.Comment == nil {
			return m, nil
		}
		// Canonical record appended so reply order stays chronological.
		m.comments = append(m.comments, *msg.Comment)
		m.likes.SeedOne(msg.Comment.ID, 0)
		m.rebuildRows()
		m.rebuildContent()
		return m, toast("Reply posted", messages.ToastSuccess)

	case messages.CommentLikeResultMsg:
		if msg.PostID != m.postID || !m.likes.Pending(msg.CommentID) {
			return m, nil
		}
		if msg.Err != nil {
			m.likes.Rollback(msg.CommentID)
			m.rebuildContent()
			return m, toastError("Failed to like", msg.Err)
		}
		m.likes.Confirm(msg.CommentID)
		return m, nil

	case messages.VoteResultMsg:
		if m.post == nil || msg.PostID != m.post.ID || !m.votes.Pending(msg.PostID) {
			return m, nil
		}
		if msg.Err != nil {
			m.votes.Rollback(msg.PostID)
			m.resizeViewport()
			return m, toastError("Failed to vote", msg.Err)
		}
		m.votes.Confirm(msg.PostID)
		return m, nil

	case messages.PostUpdatedMsg:
		if msg.Err == nil && msg.Post != nil && msg.Post.ID == m.postID {
			updated := *msg.Post
			if m.post != nil {
				updated.CommentsCount = m.post.CommentsCount
			}
			m.post = &updated
			m.resizeViewport()
			m.rebuildContent()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
			off := m.offsets[m.selectedIdx]
			viewBottom := m.viewport.YOffset + m.viewport.Height
			if off.endLine >= viewBottom {
				m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
				return m, nil
			}
		}
		if m.selectedIdx < len(m.rows)-1 {
			m.selectedIdx++
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil

	case "k", "up":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
			off := m.offsets[m.selectedIdx]
			if off.startLine < m.viewport.YOffset {
				newOff := m.viewport.YOffset - scrollStep
				if newOff < off.startLine {
					newOff = off.startLine
				}
				m.viewport.SetYOffset(newOff)
				return m, nil
			}
		}
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil

	case " ":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.rows) {
			id := m.rows[m.selectedIdx].Comment.ID
			m.collapse[id] = !m.collapse[id]
			m.rebuildRows()
			m.rebuildContent()
		}
		return m, nil

	case "l":
		return m.toggleCommentLike()

	case "v":
		return m.togglePostVote()

	case "c":
		if m.post == nil {
			return m, nil
		}
		postID := m.postID
		return m, func() tea.Msg { return messages.OpenReplyMsg{PostID: postID} }

	case "r":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.rows) {
			postID := m.postID
			parentID := m.rows[m.selectedIdx].Comment.ID
			return m, func() tea.Msg { return messages.OpenReplyMsg{PostID: postID, ParentID: parentID} }
		}
		return m, nil

	case "e":
		if m.post != nil && m.session.LoggedIn() && m.session.User.ID == m.post.UserID {
			post := *m.post
			return m, func() tea.Msg { return messages.OpenComposeMsg{Edit: &post} }
		}
		return m, nil

	case "d":
		if m.post == nil || !m.session.LoggedIn() || m.session.User.ID != m.post.UserID {
			return m, nil
		}
		client := m.client
		postID := m.post.ID
		return m, func() tea.Msg {
			err := client.DeletePost(context.Background(), postID)
			return messages.PostDeletedMsg{PostID: postID, Err: err}
		}

	case "[":
		if idx := thread.FindParentIndex(m.rows, m.selectedIdx); idx >= 0 {
			m.selectedIdx = idx
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil

	case "]":
		if idx := thread.FindNextSiblingIndex(m.rows, m.selectedIdx); idx >= 0 {
			m.selectedIdx = idx
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil

	case "g", "home":
		m.selectedIdx = 0
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil

	case "G", "end":
		if len(m.rows) > 0 {
			m.selectedIdx = len(m.rows) - 1
			m.rebuildContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case "P":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.rows) {
			userID := m.rows[m.selectedIdx].Comment.UserID
			if userID > 0 {
				return m, func() tea.Msg { return messages.OpenUserMsg{UserID: userID} }
			}
		}
		return m, nil

	case "ctrl+r":
		m.loading = true
		m.viewport.SetContent("  Refreshing...")
		return m, m.Init()

	case "ctrl+d", "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "ctrl+u", "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) toggleCommentLike() (Model, tea.Cmd) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.rows) {
		return m, nil
	}
	if !m.session.LoggedIn() {
		return m, func() tea.Msg { return messages.OpenLoginMsg{} }
	}
	commentID := m.rows[m.selectedIdx].Comment.ID
	dir, ok := m.likes.Toggle(commentID)
	if !ok {
		return m, nil
	}
	m.rebuildContent()
	client := m.client
	postID := m.postID
	return m, func() tea.Msg {
		err := client.LikeComment(context.Background(), commentID, dir)
		return messages.CommentLikeResultMsg{PostID: postID, CommentID: commentID, Err: err}
	}
}

func (m Model) togglePostVote() (Model, tea.Cmd) {
	if m.post == nil {
		return m, nil
	}
	if !m.session.LoggedIn() {
		return m, func() tea.Msg { return messages.OpenLoginMsg{} }
	}
	dir, ok := m.votes.Toggle(m.post.ID)
	if !ok {
		return m, nil
	}
	m.resizeViewport()
	client := m.client
	postID := m.post.ID
	return m, func() tea.Msg {
		err := client.VotePost(context.Background(), postID, dir)
		return messages.VoteResultMsg{PostID: postID, Err: err}
	}
}

// View renders the post view.
func (m Model) View() string {
	header := m.renderHeader()
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

// PostID returns the id this view was opened for.
func (m Model) PostID() int {
	return m.postID
}

func (m *Model) rebuildRows() {
	forest := thread.Build(m.comments)
	m.rows = thread.Flatten(forest, m.collapse)
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = len(m.rows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

func (m *Model) rebuildContent() {
	if len(m.rows) == 0 {
		m.offsets = nil
		if m.loading {
			m.viewport.SetContent("  Loading replies...")
		} else {
			m.viewport.SetContent("  No replies yet.")
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]commentOffset, len(m.rows))
	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	lineCount := 0
	for i, row := range m.rows {
		startLine := lineCount
		indent := int(math.Min(float64(row.Depth*2), 30))
		indentStr := strings.Repeat(" ", indent)

		barColor := depthColors[row.Depth%len(depthColors)]
		selected := i == m.selectedIdx
		if selected {
			barColor = "#1D9BF0"
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")

		st := m.likes.Get(row.Comment.ID)
		header := commentAuthorStyle.Render(row.Comment.Owner.DisplayName())
		header += " " + commentMetaStyle.Render("@"+row.Comment.Owner.Username)
		header += " " + commentMetaStyle.Render(render.TimeAgo(row.Comment.CreatedAt.Time))
		if st.Liked {
			header += " " + commentLikedStyle.Render(fmt.Sprintf("♥ %d", st.Count))
		} else if st.Count > 0 {
			header += " " + commentMetaStyle.Render(fmt.Sprintf("♡ %d", st.Count))
		}
		if m.likes.Pending(row.Comment.ID) {
			header += " " + commentMetaStyle.Render("…")
		}
		if row.IsCollapsed {
			header += " " + commentMetaStyle.Render(fmt.Sprintf("[+%d]", row.ChildCount))
		}

		bodyWidth := availWidth - indent - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		body := render.ToText(row.Comment.Body, bodyWidth)

		headerLine := indentStr + bar + " " + header
		if selected {
			headerLine = commentSelStyle.Render(headerLine)
		}
		sb.WriteString(headerLine + "\n")
		lineCount++

		if !row.IsCollapsed {
			for _, line := range strings.Split(body, "\n") {
				bodyLine := indentStr + bar + " " + line
				if selected {
					bodyLine = commentSelStyle.Render(bodyLine)
				}
				sb.WriteString(bodyLine + "\n")
				lineCount++
			}
		}
		sb.WriteString("\n")
		lineCount++

		m.offsets[i] = commentOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

func (m *Model) scrollToCursor() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selectedIdx]
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

func (m Model) renderHeader() string {
	if m.post == nil {
		if m.loading {
			return postHeaderStyle.Render("Loading...")
		}
		return postHeaderStyle.Render("Post not found")
	}

	var parts []string
	parts = append(parts, postHeaderStyle.Render(m.post.Title))
	parts = append(parts, postMetaStyle.Render(fmt.Sprintf(
		"%s @%s | %s",
		m.post.Owner.DisplayName(), m.post.Owner.Username, render.TimeAgo(m.post.CreatedAt),
	)))

	if m.post.Content != "" {
		bodyWidth := m.width - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		parts = append(parts, postBodyStyle.Render(render.ToText(m.post.Content, bodyWidth)))
	}

	st := m.votes.Get(m.post.ID)
	heart := "♡"
	style := postMetaStyle
	if st.Liked {
		heart = "♥"
		style = commentLikedStyle.Padding(0, 1)
	}
	counts := fmt.Sprintf("%s %d   %d replies", heart, st.Count, len(m.comments))
	parts = append(parts, style.Render(counts))

	parts = append(parts, separatorStyle.Render(strings.Repeat("─", max(m.width, 1))))
	hint := commentMetaStyle.Render("j/k:move  v:vote  l:like  c:comment  r:reply  [:parent  ]:sibling  space:collapse  P:profile")
	parts = append(parts, hint)
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
