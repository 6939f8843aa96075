// Package auth holds the client-side login session: the bearer token
// in durable storage and the current user's profile.
package auth

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/astrovine/horizon/internal/api"
)

// TokenStore is the durable home of the bearer token between runs.
// The cache database implements it.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// Session manages authentication state. The API client reads the
// token through TokenSource on every request; only login and logout
// write it.
type Session struct {
	store TokenStore

	token string
	User  *api.Profile
}

// NewSession creates a session backed by store. No network traffic
// happens until Restore or Login.
func NewSession(store TokenStore) *Session {
	return &Session{store: store}
}

// TokenSource exposes the current token to the API client.
func (s *Session) TokenSource() api.TokenSource {
	return func() string { return s.token }
}

// LoggedIn reports whether a user is loaded.
func (s *Session) LoggedIn() bool {
	return s.User != nil
}

// Restore loads a saved token and validates it by fetching the current
// user's profile. Any failure there means a broken authenticated
// state, so the session is fully cleared rather than left partial.
func (s *Session) Restore(ctx context.Context, client *api.Client) bool {
	token, err := s.store.Token()
	if err != nil || token == "" {
		return false
	}
	s.token = token

	user, err := client.MyProfile(ctx)
	if err != nil {
		logrus.WithError(err).Info("saved session rejected, logging out")
		s.Logout()
		return false
	}
	s.User = user
	return true
}

// Login authenticates, persists the token, and loads the user profile.
func (s *Session) Login(ctx context.Context, client *api.Client, email, password string) error {
	token, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.token = token
	if err := s.store.SetToken(token); err != nil {
		logrus.WithError(err).Warn("could not persist session token")
	}

	user, err := client.MyProfile(ctx)
	if err != nil {
		s.Logout()
		return fmt.Errorf("loading profile after login: %w", err)
	}
	s.User = user
	return nil
}

// Register creates an account and then logs in with the same
// credentials.
func (s *Session) Register(ctx context.Context, client *api.Client, params api.RegisterParams) error {
	if _, err := client.Register(ctx, params); err != nil {
		return err
	}
	return s.Login(ctx, client, params.Email, params.Password)
}

// Logout clears the in-memory session and the stored token.
func (s *Session) Logout() {
	s.token = ""
	s.User = nil
	if err := s.store.ClearToken(); err != nil {
		logrus.WithError(err).Warn("could not clear stored token")
	}
}

// SetUser replaces the cached profile after an edit.
func (s *Session) SetUser(user *api.Profile) {
	s.User = user
}
