package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListPosts fetches the global timeline, newest first. search filters
// by title and may be empty. The backend's query params are
// capitalized on this route.
func (c *Client) ListPosts(ctx context.Context, limit, skip int, search string) ([]Post, error) {
	query := url.Values{
		"Limit": {strconv.Itoa(limit)},
		"Skip":  {strconv.Itoa(skip)},
	}
	if search != "" {
		query.Set("Search", search)
	}
	var wire []wirePost
	if err := c.get(ctx, "/posts/", query, &wire); err != nil {
		return nil, err
	}
	return normalizePosts(wire), nil
}

// Feed fetches posts from users the current user follows.
func (c *Client) Feed(ctx context.Context, limit, skip int) ([]Post, error) {
	query := url.Values{
		"Limit": {strconv.Itoa(limit)},
		"Skip":  {strconv.Itoa(skip)},
	}
	var wire []wirePost
	if err := c.get(ctx, "/feed", query, &wire); err != nil {
		return nil, err
	}
	return normalizePosts(wire), nil
}

// UserPosts fetches a single user's posts, newest first.
func (c *Client) UserPosts(ctx context.Context, userID, limit, skip int) ([]Post, error) {
	query := url.Values{
		"limit": {strconv.Itoa(limit)},
		"skip":  {strconv.Itoa(skip)},
	}
	var wire []wirePost
	if err := c.get(ctx, fmt.Sprintf("/posts/%d/posts", userID), query, &wire); err != nil {
		return nil, err
	}
	return normalizePosts(wire), nil
}

// findPostPageSize bounds the list scan in FindPost. The backend has no
// single-post route, so the detail view locates its post in the
// timeline the same way the web client does.
const findPostPageSize = 100

// FindPost locates a post by id within the first timeline page.
// Returns nil when the post is not present (deleted or paged out).
func (c *Client) FindPost(ctx context.Context, id int) (*Post, error) {
	posts, err := c.ListPosts(ctx, findPostPageSize, 0, "")
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, nil
}

type postParams struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// CreatePost submits a new post and returns the canonical record the
// backend assigned (id, timestamps; vote count starts at zero).
func (c *Client) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	var wire wirePost
	err := c.postJSON(ctx, "/posts/", postParams{Title: title, Content: content, Published: true}, &wire)
	if err != nil {
		return nil, err
	}
	post := wire.normalize()
	return &post, nil
}

// UpdatePost rewrites a post's title and content. Only the owner may
// update; the backend answers 403 otherwise.
func (c *Client) UpdatePost(ctx context.Context, id int, title, content string) (*Post, error) {
	var wire struct {
		Data wirePost `json:"data"`
	}
	err := c.putJSON(ctx, fmt.Sprintf("/posts/%d", id), postParams{Title: title, Content: content, Published: true}, &wire)
	if err != nil {
		return nil, err
	}
	post := wire.Data.normalize()
	return &post, nil
}

// DeletePost removes a post. 404 and 403 come back as *APIError.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/posts/%d", id))
}

// Vote directions on the wire.
const (
	VoteRemove = 0
	VoteAdd    = 1
)

// VotePost adds (dir=1) or removes (dir=0) the current user's vote.
func (c *Client) VotePost(ctx context.Context, postID, dir int) error {
	payload := struct {
		PostID int `json:"post_id"`
		Dir    int `json:"dir"`
	}{PostID: postID, Dir: dir}
	return c.postJSON(ctx, "/vote/", payload, nil)
}
