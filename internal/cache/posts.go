package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/astrovine/horizon/internal/api"
)

// GetPost retrieves a cached post. Returns (post, isFresh, error);
// post is nil on a miss.
func (d *DB) GetPost(id int, ttl time.Duration) (*api.Post, bool, error) {
	row := d.db.QueryRow(`SELECT id, title, content, created_at, user_id,
		owner_id, owner_name, owner_user_name, votes, comments_count, fetched_at
		FROM posts WHERE id = ?`, id)

	var post api.Post
	var content, createdAt, ownerName, ownerUserName sql.NullString
	var fetchedAt int64

	err := row.Scan(&post.ID, &post.Title, &content, &createdAt, &post.UserID,
		&post.Owner.ID, &ownerName, &ownerUserName, &post.Votes, &post.CommentsCount, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	post.Content = content.String
	post.Owner.Name = ownerName.String
	post.Owner.Username = ownerUserName.String
	if createdAt.Valid {
		post.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt.String)
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &post, isFresh, nil
}

// PutPost stores a post.
func (d *DB) PutPost(post *api.Post) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO posts
		(id, title, content, created_at, user_id, owner_id, owner_name, owner_user_name, votes, comments_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, nullStr(post.Content),
		post.CreatedAt.Format(time.RFC3339Nano), post.UserID,
		post.Owner.ID, nullStr(post.Owner.Name), nullStr(post.Owner.Username),
		post.Votes, post.CommentsCount, time.Now().Unix())
	return err
}

// PutPosts stores a fetched page and remembers its ordering under
// listKey (one of the tab names).
func (d *DB) PutPosts(listKey string, posts []api.Post) error {
	ids := make([]int, 0, len(posts))
	for i := range posts {
		if err := d.PutPost(&posts[i]); err != nil {
			return err
		}
		ids = append(ids, posts[i].ID)
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO post_lists (list_key, post_ids, fetched_at) VALUES (?, ?, ?)`,
		listKey, string(idsJSON), time.Now().Unix())
	return err
}

// GetPostList retrieves a cached page for listKey in stored order.
// Returns (posts, isFresh, error); posts is nil on a miss.
func (d *DB) GetPostList(listKey string, ttl time.Duration) ([]api.Post, bool, error) {
	row := d.db.QueryRow(`SELECT post_ids, fetched_at FROM post_lists WHERE list_key = ?`, listKey)

	var idsJSON string
	var fetchedAt int64
	err := row.Scan(&idsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ids []int
	if err := json.Unmarshal([]byte(idsJSON), &ids); err != nil {
		return nil, false, err
	}

	posts := make([]api.Post, 0, len(ids))
	for _, id := range ids {
		post, _, err := d.GetPost(id, ttl)
		if err != nil || post == nil {
			continue
		}
		posts = append(posts, *post)
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return posts, isFresh, nil
}

// InvalidatePostList drops a cached page ordering.
func (d *DB) InvalidatePostList(listKey string) error {
	_, err := d.db.Exec(`DELETE FROM post_lists WHERE list_key = ?`, listKey)
	return err
}

// DeletePost removes a post from the cache after a confirmed delete.
func (d *DB) DeletePost(id int) error {
	_, err := d.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
