package api

import (
	"context"
	"fmt"
	"net/url"
)

// Login exchanges credentials for a bearer token. The login route is
// the one form-encoded endpoint; the username field carries the email.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	data := url.Values{
		"username": {email},
		"password": {password},
	}
	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.postForm(ctx, "/login", data, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", &ParseError{Endpoint: "/login", Err: fmt.Errorf("empty access_token")}
	}
	return token.AccessToken, nil
}

// RegisterParams is the new-account payload.
type RegisterParams struct {
	Name     string `json:"name"`
	Username string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Register creates a new account. The caller logs in afterwards; the
// backend does not return a token here.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*UserRef, error) {
	var user UserRef
	if err := c.postJSON(ctx, "/users/", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyProfile fetches the current user's profile with follow stats.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/profile/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile fetches another user's profile. IsFollowing reflects the
// current user's relationship to them.
func (c *Client) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, fmt.Sprintf("/profile/%d", userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate carries the editable profile fields. Nil fields are
// left untouched by the backend.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Username  *string `json:"user_name,omitempty"`
	Location  *string `json:"location,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UpdateProfile edits the current user's profile and returns the
// refreshed record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	var profile Profile
	if err := c.putJSON(ctx, "/profile/me", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Follow subscribes the current user to username's posts. The route is
// keyed by username; unfollow is keyed by id. Both are idempotent on
// the backend.
func (c *Client) Follow(ctx context.Context, username string) error {
	return c.postJSON(ctx, fmt.Sprintf("/follow/users/%s/follow", url.PathEscape(username)), nil, nil)
}

// Unfollow removes the subscription to userID's posts.
func (c *Client) Unfollow(ctx context.Context, userID int) error {
	return c.delete(ctx, fmt.Sprintf("/follow/users/%d/follow", userID))
}
