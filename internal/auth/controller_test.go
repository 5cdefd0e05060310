package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsideapp/courtside-go/internal/api"
	"github.com/courtsideapp/courtside-go/internal/apitest"
	"github.com/courtsideapp/courtside-go/internal/models"
	"github.com/courtsideapp/courtside-go/internal/session"
)

// --- Mocks ---

type mockStore struct {
	sess     *models.Session
	saveErr  error
	clearErr error
	clears   int
}

func (m *mockStore) Save(sess models.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sess = &sess
	return nil
}

func (m *mockStore) Load() (*models.Session, error) {
	return m.sess, nil
}

func (m *mockStore) Clear() error {
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.sess = nil
	return nil
}

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) Invalidate() {
	s.calls++
}

func newBackendController(t *testing.T) (*apitest.Server, *Controller, *session.Store) {
	t.Helper()
	server := apitest.New(t)
	client := api.NewClient(api.WithBaseURL(server.URL))
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return server, NewController(client.Users, store, nil, nil), store
}

// --- Credential login ---

func TestController_LoginSuccess(t *testing.T) {
	server, c, store := newBackendController(t)
	id := server.SeedUser("testUser1", "1234")

	require.Equal(t, SignedOut, c.State())

	err := c.Login(context.Background(), "testUser1", "1234")
	require.NoError(t, err)
	assert.Equal(t, SignedIn, c.State())

	sess := c.Session()
	require.NotNil(t, sess)
	assert.Equal(t, id, sess.UserID)
	assert.Equal(t, models.AuthPassword, sess.AuthMethod)

	// The session was persisted before the transition.
	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, id, stored.UserID)
	assert.Equal(t, "testUser1", stored.DisplayName)
}

func TestController_LoginInvalidCredentials(t *testing.T) {
	server, c, store := newBackendController(t)
	server.SeedUser("testUser1", "1234")

	err := c.Login(context.Background(), "testUser1", "wrong")
	require.Error(t, err)
	assert.Equal(t, AuthFailed, c.State())

	reason := c.Failure()
	require.NotNil(t, reason)
	assert.Equal(t, "invalid_credentials", reason.Code)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored, "no session persisted on failure")

	// Dismissing the failure returns to SignedOut.
	c.Acknowledge()
	assert.Equal(t, SignedOut, c.State())
	assert.Nil(t, c.Failure())
}

func TestController_LoginNetworkFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	client := api.NewClient(api.WithBaseURL(dead.URL))
	c := NewController(client.Users, &mockStore{}, nil, nil)

	err := c.Login(context.Background(), "testUser1", "1234")
	require.Error(t, err)
	assert.Equal(t, AuthFailed, c.State())

	reason := c.Failure()
	require.NotNil(t, reason)
	assert.Equal(t, "network_unavailable", reason.Code)
}

func TestController_LoginEmptyCredentialsRejectedLocally(t *testing.T) {
	_, c, _ := newBackendController(t)

	err := c.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, SignedOut, c.State(), "no attempt started for empty credentials")
}

func TestController_RestoresSessionOnStart(t *testing.T) {
	store := &mockStore{sess: &models.Session{UserID: 9, DisplayName: "restored"}}
	c := NewController(nil, store, nil, nil)

	assert.Equal(t, SignedIn, c.State())
	sess := c.Session()
	require.NotNil(t, sess)
	assert.Equal(t, int64(9), sess.UserID)
}

// --- Logout ---

func TestController_LogoutClearsEverything(t *testing.T) {
	server, c, store := newBackendController(t)
	server.SeedUser("testUser1", "1234")
	require.NoError(t, c.Login(context.Background(), "testUser1", "1234"))

	spy := &spyInvalidator{}
	c.OnLogout(spy)

	c.Logout()
	assert.Equal(t, SignedOut, c.State())
	assert.Nil(t, c.Session())
	assert.Equal(t, 1, spy.calls, "dependent caches invalidated")

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestController_LogoutSucceedsWhenStorageFails(t *testing.T) {
	store := &mockStore{
		sess:     &models.Session{UserID: 3, DisplayName: "user"},
		clearErr: errors.New("database file locked"),
	}
	c := NewController(nil, store, nil, nil)
	require.Equal(t, SignedIn, c.State())

	// A failed storage clear must never leave the user unable to log out.
	c.Logout()
	assert.Equal(t, SignedOut, c.State())
	assert.Nil(t, c.Session())
	assert.Equal(t, 1, store.clears)
}

// --- Google OAuth ---

// fakeGoogle stands in for Google's token and userinfo endpoints.
func fakeGoogle(t *testing.T, profile GoogleProfile) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fake-access-token",
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fake-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(profile)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestController_LoginWithGoogle(t *testing.T) {
	backend := apitest.New(t)
	client := api.NewClient(api.WithBaseURL(backend.URL))

	provider := fakeGoogle(t, GoogleProfile{ID: "g-123", Email: "user@example.com", Name: "User"})
	google := NewGoogleAuthenticator("client-id", "http://localhost/callback").
		WithEndpoints(provider.URL+"/token", provider.URL+"/auth", provider.URL+"/userinfo")

	store := &mockStore{}
	c := NewController(client.Users, store, google, nil)

	err := c.LoginWithGoogle(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, SignedIn, c.State())

	sess := c.Session()
	require.NotNil(t, sess)
	assert.Equal(t, models.AuthOAuth, sess.AuthMethod)
	assert.Equal(t, "User", sess.DisplayName)
	require.NotNil(t, store.sess, "session persisted")
}

func TestController_LoginWithGoogleToken(t *testing.T) {
	backend := apitest.New(t)
	client := api.NewClient(api.WithBaseURL(backend.URL))

	provider := fakeGoogle(t, GoogleProfile{ID: "g-456", Name: "Tokened"})
	google := NewGoogleAuthenticator("client-id", "").
		WithEndpoints(provider.URL+"/token", provider.URL+"/auth", provider.URL+"/userinfo")

	c := NewController(client.Users, &mockStore{}, google, nil)

	err := c.LoginWithGoogleToken(context.Background(), "fake-access-token")
	require.NoError(t, err)
	assert.Equal(t, SignedIn, c.State())
}

func TestController_GoogleProfileWithoutIDFails(t *testing.T) {
	backend := apitest.New(t)
	client := api.NewClient(api.WithBaseURL(backend.URL))

	provider := fakeGoogle(t, GoogleProfile{Name: "No ID"})
	google := NewGoogleAuthenticator("client-id", "").
		WithEndpoints(provider.URL+"/token", provider.URL+"/auth", provider.URL+"/userinfo")

	c := NewController(client.Users, &mockStore{}, google, nil)

	err := c.LoginWithGoogleToken(context.Background(), "fake-access-token")
	require.Error(t, err)
	assert.Equal(t, AuthFailed, c.State())
}

func TestController_GoogleNotConfigured(t *testing.T) {
	c := NewController(nil, &mockStore{}, nil, nil)

	err := c.LoginWithGoogle(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, SignedOut, c.State())

	_, err = c.AuthURL("state")
	require.Error(t, err)
}

func TestGoogleAuthenticator_AuthURL(t *testing.T) {
	google := NewGoogleAuthenticator("client-id", "http://localhost/callback")
	url := google.AuthURL("xyzzy")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=xyzzy")
}
