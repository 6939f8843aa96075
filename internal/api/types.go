package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UserRef is the embedded owner record the backend attaches to posts,
// comments, and profiles.
type UserRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"user_name"`
	Email    string `json:"email"`
}

// DisplayName returns the best available name for rendering.
func (u UserRef) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "user"
}

// Post is the canonical post representation. List endpoints wrap posts
// in a {Post, votes, comments_count} envelope while create/update
// return the bare record; both are normalized into this on receipt so
// nothing downstream branches on the wire shape.
type Post struct {
	ID            int
	Title         string
	Content       string
	CreatedAt     time.Time
	UserID        int
	Owner         UserRef
	Votes         int
	CommentsCount int
}

// Comment is a single comment record. ParentID is 0 for top-level
// comments; a non-zero ParentID may reference a comment that is absent
// from the fetched set, which the thread builder tolerates.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	ParentID  int       `json:"parent_id"`
	Body      string    `json:"comment"`
	CreatedAt Timestamp `json:"created_at"`
	Owner     UserRef   `json:"owner"`
}

// Profile is a user profile with follow stats.
type Profile struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"user_name"`
	Email          string    `json:"email"`
	CreatedAt      Timestamp `json:"created_at"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	PostsCount     int       `json:"posts_count"`
	IsFollowing    bool      `json:"is_following"`
}

// DisplayName returns the best available name for rendering.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return "user"
}

// Timestamp decodes the backend's timestamps, which come back either
// as RFC 3339 or as naive datetimes with no offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// wirePost accepts every post shape the backend produces: the bare
// record, the {Post, votes, comments_count} list envelope, and the
// {data: record} update wrapper.
type wirePost struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	UserID    int       `json:"user_id"`
	Owner     UserRef   `json:"owner"`

	Post          *wirePost `json:"Post"`
	Votes         int       `json:"votes"`
	CommentsCount int       `json:"comments_count"`
}

func (w wirePost) normalize() Post {
	body := w
	if w.Post != nil {
		body = *w.Post
	}
	return Post{
		ID:            body.ID,
		Title:         body.Title,
		Content:       body.Content,
		CreatedAt:     body.CreatedAt.Time,
		UserID:        body.UserID,
		Owner:         body.Owner,
		Votes:         w.Votes,
		CommentsCount: w.CommentsCount,
	}
}

func normalizePosts(wire []wirePost) []Post {
	posts := make([]Post, 0, len(wire))
	for _, w := range wire {
		posts = append(posts, w.normalize())
	}
	return posts
}
