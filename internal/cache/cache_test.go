package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovine/horizon/internal/api"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func samplePost(id int) api.Post {
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

func TestPostRoundTrip(t *testing.T) {
	db := openTestDB(t)
	post := samplePost(7)
	require.NoError(t, db.PutPost(&post))

	got, fresh, err := db.GetPost(7, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, fresh)
	assert.Equal(t, post, *got)
}

func TestGetPostMiss(t *testing.T) {
	db := openTestDB(t)
	got, fresh, err := db.GetPost(99, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, fresh)
}

func TestGetPostStale(t *testing.T) {
	db := openTestDB(t)
	post := samplePost(7)
	require.NoError(t, db.PutPost(&post))

	got, fresh, err := db.GetPost(7, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, fresh)
}

func TestPostListKeepsOrder(t *testing.T) {
	db := openTestDB(t)
	posts := []api.Post{samplePost(3), samplePost(1), samplePost(2)}
	require.NoError(t, db.PutPosts("home", posts))

	got, fresh, err := db.GetPostList("home", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
	assert.Equal(t, 2, got[2].ID)
}

func TestPostListSkipsDeleted(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.PutPosts("home", []api.Post{samplePost(1), samplePost(2)}))
	require.NoError(t, db.DeletePost(1))

	got, _, err := db.GetPostList("home", time.Minute)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestInvalidatePostList(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.PutPosts("home", []api.Post{samplePost(1)}))
	require.NoError(t, db.InvalidatePostList("home"))

	got, fresh, err := db.GetPostList("home", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, fresh)
}

func TestProfileRoundTrip(t *testing.T) {
	db := openTestDB(t)
	profile := api.Profile{
		ID:             3,
		Name:           "Ada",
		Username:       "ada",
		Email:          "ada@example.com",
		CreatedAt:      api.Timestamp{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		Location:       "London",
		Bio:            "first programmer",
		FollowersCount: 10,
		FollowingCount: 5,
		PostsCount:     2,
		IsFollowing:    true,
	}
	require.NoError(t, db.PutProfile(&profile))

	got, fresh, err := db.GetProfile(3, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, fresh)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, 10, got.FollowersCount)
	// Relative to the viewer, so never served from cache.
	assert.False(t, got.IsFollowing)
}

func TestTokenLifecycle(t *testing.T) {
	db := openTestDB(t)

	token, err := db.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, db.SetToken("tok123"))
	token, err = db.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)

	require.NoError(t, db.SetToken("tok456"))
	token, err = db.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok456", token)

	require.NoError(t, db.ClearToken())
	token, err = db.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
