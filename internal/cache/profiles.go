package cache

import (
	"database/sql"
	"time"

	"github.com/astrovine/horizon/internal/api"
)

// GetProfile retrieves a cached profile. Returns (profile, isFresh,
// error); profile is nil on a miss. IsFollowing is not cached since it
// is relative to whoever is logged in.
func (d *DB) GetProfile(userID int, ttl time.Duration) (*api.Profile, bool, error) {
	row := d.db.QueryRow(`SELECT id, name, user_name, email, created_at, location, bio,
		followers_count, following_count, posts_count, fetched_at
		FROM profiles WHERE id = ?`, userID)

	var profile api.Profile
	var name, userName, email, createdAt, location, bio sql.NullString
	var fetchedAt int64

	err := row.Scan(&profile.ID, &name, &userName, &email, &createdAt, &location, &bio,
		&profile.FollowersCount, &profile.FollowingCount, &profile.PostsCount, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	profile.Name = name.String
	profile.Username = userName.String
	profile.Email = email.String
	profile.Location = location.String
	profile.Bio = bio.String
	if createdAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, createdAt.String)
		profile.CreatedAt = api.Timestamp{Time: t}
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &profile, isFresh, nil
}

// PutProfile stores a profile.
func (d *DB) PutProfile(profile *api.Profile) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO profiles
		(id, name, user_name, email, created_at, location, bio, followers_count, following_count, posts_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, nullStr(profile.Name), nullStr(profile.Username), nullStr(profile.Email),
		profile.CreatedAt.Format(time.RFC3339Nano), nullStr(profile.Location), nullStr(profile.Bio),
		profile.FollowersCount, profile.FollowingCount, profile.PostsCount, time.Now().Unix())
	return err
}
