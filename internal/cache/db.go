// Package cache is the client's durable local storage: the session
// token plus TTL'd copies of posts and profiles so views render
// immediately and survive a flaky backend.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT,
			created_at TEXT,
			user_id INTEGER,
			owner_id INTEGER,
			owner_name TEXT,
			owner_user_name TEXT,
			votes INTEGER DEFAULT 0,
			comments_count INTEGER DEFAULT 0,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id)`,

		`CREATE TABLE IF NOT EXISTS post_lists (
			list_key TEXT PRIMARY KEY,
			post_ids TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY,
			name TEXT,
			user_name TEXT,
			email TEXT,
			created_at TEXT,
			location TEXT,
			bio TEXT,
			followers_count INTEGER DEFAULT 0,
			following_count INTEGER DEFAULT 0,
			posts_count INTEGER DEFAULT 0,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
