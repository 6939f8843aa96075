package ui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/config"
	"github.com/astrovine/horizon/internal/ui/messages"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		PageSize:      20,
		ExplorePage:   100,
		ToastDuration: 3 * time.Second,
	}
	session := auth.NewSession(db)
	client := api.NewClient("http://localhost:0", session.TokenSource())
	return NewApp(cfg, client, db, session)
}

// step runs one Update, discarding the command. Requests never fire,
// so data messages are delivered by hand.
func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	model, _ := a.Update(msg)
	return model.(App)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartupResizeOnlyTouchesOpenViews(t *testing.T) {
	app := newTestApp(t)

	// The terminal reports its size before any view beyond the list
	// has been opened.
	app = step(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.NotEmpty(t, app.View())
}

func TestResizeWithDetailViewsOpen(t *testing.T) {
	app := newTestApp(t)
	app.session.SetUser(&api.Profile{ID: 1, Username: "ada"})
	app = step(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})

	app = step(t, app, messages.OpenPostMsg{PostID: 7})
	app = step(t, app, messages.OpenUserMsg{UserID: 99})
	app = step(t, app, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.NotEmpty(t, app.View())
}

func TestCommentLikeRollbackReachesCoveredPostView(t *testing.T) {
	app := newTestApp(t)
	app.session.SetUser(&api.Profile{ID: 1, Username: "ada"})
	app = step(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})

	app = step(t, app, messages.OpenPostMsg{PostID: 7})
	app = step(t, app, messages.PostDetailLoadedMsg{
		PostID: 7,
		Post:   &api.Post{ID: 7, Title: "title", UserID: 2, Votes: 1},
		Comments: []api.Comment{
			{ID: 11, PostID: 7, Body: "first", Owner: api.UserRef{ID: 2, Username: "bo"}},
		},
		Likes: map[int]int{11: 2},
	})

	app = step(t, app, keyMsg("l"))
	require.Contains(t, app.post.View(), "♥ 3")

	// The response lands after another view covered the post.
	app = step(t, app, messages.OpenUserMsg{UserID: 99})
	app = step(t, app, messages.CommentLikeResultMsg{
		PostID: 7, CommentID: 11, Err: errors.New("boom"),
	})

	view := app.post.View()
	assert.Contains(t, view, "♡ 2")
	assert.NotContains(t, view, "♥ 3")
	assert.NotContains(t, view, "…")

	// The rollback also frees the in-flight slot.
	app = step(t, app, messages.GoBackMsg{})
	app = step(t, app, keyMsg("l"))
	assert.Contains(t, app.post.View(), "♥ 3")
}

func TestVoteResultReachesCoveredListView(t *testing.T) {
	app := newTestApp(t)
	app.session.SetUser(&api.Profile{ID: 1, Username: "ada"})
	app = step(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})

	app = step(t, app, messages.PostsLoadedMsg{
		Tab:   messages.TabHome,
		Posts: []api.Post{{ID: 3, Title: "title", UserID: 2, Votes: 4}},
	})
	app = step(t, app, keyMsg("v"))
	require.Contains(t, app.list.View(), "♥ 5")

	app = step(t, app, messages.OpenPostMsg{PostID: 3})
	app = step(t, app, messages.VoteResultMsg{PostID: 3, Err: errors.New("boom")})

	app = step(t, app, messages.GoBackMsg{})
	view := app.list.View()
	assert.Contains(t, view, "♡ 4")
	assert.NotContains(t, view, "♥ 5")
}
