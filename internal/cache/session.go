package cache

import "database/sql"

const tokenKey = "access_token"

// Token returns the stored bearer token, or "" when logged out.
func (d *DB) Token() (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, tokenKey).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetToken persists the bearer token across runs.
func (d *DB) SetToken(token string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`, tokenKey, token)
	return err
}

// ClearToken removes the stored token on logout.
func (d *DB) ClearToken() error {
	_, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, tokenKey)
	return err
}
