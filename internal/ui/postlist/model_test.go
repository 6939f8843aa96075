package postlist

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

func newTestModel(t *testing.T, posts ...api.Post) Model {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	session := auth.NewSession(db)
	client := api.NewClient("http://localhost:0", session.TokenSource())
	m := New(config.Config{PageSize: 20}, client, db, session)
	m.SetSize(80, 24)
	m, _ = m.Update(messages.PostsLoadedMsg{Tab: messages.TabHome, Posts: posts})
	return m
}

func listPost(id int) api.Post {
	return api.Post{
		ID:            id,
		Title:         "post title",
		Content:       "post body",
		CreatedAt:     time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		UserID:        3,
		Owner:         api.UserRef{ID: 3, Name: "Ada", Username: "ada"},
		Votes:         4,
		CommentsCount: 2,
	}
}

func listIDs(m Model) []int {
	ids := make([]int, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		ids = append(ids, it.(PostItem).Post.ID)
	}
	return ids
}

func TestCreatedPostSplicedFirst(t *testing.T) {
	m := newTestModel(t, listPost(1), listPost(2))

	created := listPost(42)
	m, _ = m.Update(messages.PostCreatedMsg{Post: &created})

	assert.Equal(t, []int{42, 1, 2}, listIDs(m))
	assert.Equal(t, created.Votes, m.votes.Get(42).Count)

	got, _, err := m.cache.GetPost(42, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, created, *got)
}

func TestCreateFailureLeavesListAlone(t *testing.T) {
	m := newTestModel(t, listPost(1))

	m, _ = m.Update(messages.PostCreatedMsg{Err: errors.New("boom")})

	assert.Equal(t, []int{1}, listIDs(m))
}

func TestDeleteRemovesPost(t *testing.T) {
	m := newTestModel(t, listPost(1), listPost(2))

	m, _ = m.Update(messages.PostDeletedMsg{PostID: 2})

	assert.Equal(t, []int{1}, listIDs(m))
	assert.Equal(t, 0, m.votes.Get(2).Count)
}

func TestDeleteFailureKeepsPost(t *testing.T) {
	m := newTestModel(t, listPost(1), listPost(2))

	m, _ = m.Update(messages.PostDeletedMsg{PostID: 2, Err: errors.New("boom")})

	assert.Equal(t, []int{1, 2}, listIDs(m))
	item := m.list.Items()[1].(PostItem)
	assert.Equal(t, listPost(2), item.Post)
	assert.Equal(t, 4, m.votes.Get(2).Count)
}

func TestFailedVoteRollsBack(t *testing.T) {
	m := newTestModel(t, listPost(1))
	m.session.SetUser(&api.Profile{ID: 9, Username: "nia"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	require.Equal(t, 5, m.votes.Get(1).Count)
	require.True(t, m.votes.Pending(1))

	m, _ = m.Update(messages.VoteResultMsg{PostID: 1, Err: errors.New("boom")})
	assert.Equal(t, 4, m.votes.Get(1).Count)
	assert.False(t, m.votes.Pending(1))
}

func TestVoteResultIgnoredWithoutPendingToggle(t *testing.T) {
	m := newTestModel(t, listPost(1))

	m, _ = m.Update(messages.VoteResultMsg{PostID: 1, Err: errors.New("boom")})

	assert.Equal(t, 4, m.votes.Get(1).Count)
	assert.False(t, m.votes.Get(1).Liked)
}
