package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Comments fetches the flat comment list for a post, oldest first.
// Threading is the caller's job.
func (c *Client) Comments(ctx context.Context, postID int) ([]Comment, error) {
	var comments []Comment
	if err := c.get(ctx, fmt.Sprintf("/posts/%d/comments", postID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentLikes fetches the aggregate like count per comment for a
// post. JSON object keys are strings on the wire; they are converted
// back to comment ids here.
func (c *Client) CommentLikes(ctx context.Context, postID int) (map[int]int, error) {
	path := fmt.Sprintf("/posts/%d/comments/likes", postID)
	var wire map[string]int
	if err := c.get(ctx, path, nil, &wire); err != nil {
		return nil, err
	}
	likes := make(map[int]int, len(wire))
	for key, count := range wire {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, &ParseError{Endpoint: path, Err: fmt.Errorf("non-numeric comment id %q", key)}
		}
		likes[id] = count
	}
	return likes, nil
}

type commentParams struct {
	Comment string `json:"comment"`
}

// AddComment posts a top-level comment and returns the canonical
// record with its assigned id and owner.
func (c *Client) AddComment(ctx context.Context, postID int, body string) (*Comment, error) {
	var comment Comment
	if err := c.postJSON(ctx, fmt.Sprintf("/posts/%d/comment", postID), commentParams{Comment: body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Reply posts a nested reply under an existing comment.
func (c *Client) Reply(ctx context.Context, commentID int, body string) (*Comment, error) {
	var comment Comment
	if err := c.postJSON(ctx, fmt.Sprintf("/posts/%d/reply", commentID), commentParams{Comment: body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// LikeComment adds (dir=1) or removes (dir=0) the current user's like
// on a comment. The backend treats repeats as no-ops.
func (c *Client) LikeComment(ctx context.Context, commentID, dir int) error {
	query := url.Values{"dir": {strconv.Itoa(dir)}}
	return c.do(ctx, "POST", fmt.Sprintf("/posts/comments/%d/like", commentID), query, nil, "", nil)
}

// PostDetail fetches everything the detail view needs in one shot:
// the post itself, its flat comment list, and the comment-likes map.
// The three requests run concurrently.
func (c *Client) PostDetail(ctx context.Context, postID int) (*Post, []Comment, map[int]int, error) {
	var (
		post     *Post
		comments []Comment
		likes    map[int]int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = c.FindPost(ctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = c.Comments(ctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		likes, err = c.CommentLikes(ctx, postID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return post, comments, likes, nil
}
