package postlist

import (
	"fmt"
	"strings"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/interactions"
	"github.com/astrovine/horizon/internal/render"
)

// PostItem wraps a post for the bubbles list.
type PostItem struct {
	Post  api.Post
	votes *interactions.Store
}

// NewPostItem wraps post, reading its like state from votes.
func NewPostItem(post api.Post, votes *interactions.Store) PostItem {
	return PostItem{Post: post, votes: votes}
}

func (p PostItem) Title() string {
	return p.Post.Title
}

func (p PostItem) Description() string {
	st := p.votes.Get(p.Post.ID)

	parts := make([]string, 0, 5)
	parts = append(parts, fmt.Sprintf("%s @%s", p.Post.Owner.DisplayName(), p.Post.Owner.Username))
	parts = append(parts, render.TimeAgo(p.Post.CreatedAt))
	heart := "♡"
	if st.Liked {
		heart = "♥"
	}
	parts = append(parts, fmt.Sprintf("%s %d", heart, st.Count))
	if p.Post.CommentsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d replies", p.Post.CommentsCount))
	}
	return strings.Join(parts, " | ")
}

func (p PostItem) FilterValue() string {
	return p.Post.Title + " " + p.Post.Owner.Username
}
