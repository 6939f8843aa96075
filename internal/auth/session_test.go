package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovine/horizon/internal/api"
)

type memStore struct {
	token string
}

func (m *memStore) Token() (string, error)  { return m.token, nil }
func (m *memStore) SetToken(t string) error { m.token = t; return nil }
func (m *memStore) ClearToken() error       { m.token = ""; return nil }

func backend(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			require.NoError(t, r.ParseForm())
			if r.PostFormValue("password") != "secret" {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"detail": "Invalid Credentials"}`))
				return
			}
			w.Write([]byte(`{"access_token": "` + validToken + `", "token_type": "bearer"}`))
		case "/profile/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Could not validate credentials"}`))
				return
			}
			w.Write([]byte(`{"id": 3, "name": "Ada", "user_name": "ada", "email": "ada@example.com"}`))
		case "/users/":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 3, "name": "Ada", "user_name": "ada", "email": "ada@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsTokenAndLoadsUser(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	require.NoError(t, session.Login(context.Background(), client, "ada@example.com", "secret"))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, "ada", session.User.Username)
	assert.Equal(t, "tok123", store.token)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	err := session.Login(context.Background(), client, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, session.LoggedIn())
	assert.Empty(t, store.token)
}

func TestRestoreValidToken(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{token: "tok123"}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	assert.True(t, session.Restore(context.Background(), client))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, 3, session.User.ID)
}

func TestRestoreRejectedTokenClearsEverything(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{token: "expired"}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	assert.False(t, session.Restore(context.Background(), client))
	assert.False(t, session.LoggedIn())
	assert.Empty(t, store.token)
	assert.Empty(t, session.TokenSource()())
}

func TestRestoreWithoutStoredToken(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	assert.False(t, session.Restore(context.Background(), client))
	assert.False(t, session.LoggedIn())
}

func TestRegisterLogsIn(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	params := api.RegisterParams{
		Name: "Ada", Username: "ada",
		Email: "ada@example.com", Password: "secret",
	}
	require.NoError(t, session.Register(context.Background(), client, params))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, "tok123", store.token)
}

func TestLogout(t *testing.T) {
	srv := backend(t, "tok123")
	store := &memStore{}
	session := NewSession(store)
	client := api.NewClient(srv.URL, session.TokenSource())

	require.NoError(t, session.Login(context.Background(), client, "ada@example.com", "secret"))
	session.Logout()

	assert.False(t, session.LoggedIn())
	assert.Empty(t, store.token)
	assert.Empty(t, session.TokenSource()())
}
