// Package auth implements the session lifecycle: credential and Google
// OAuth login, session persistence, and logout with cross-component
// invalidation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/courtsideapp/courtside-go/internal/api"
	"github.com/courtsideapp/courtside-go/internal/apperrors"
	"github.com/courtsideapp/courtside-go/internal/models"
)

// State is the controller's lifecycle state.
type State string

const (
	// SignedOut means no session exists.
	SignedOut State = "signed_out"
	// Authenticating means a login attempt is in flight.
	Authenticating State = "authenticating"
	// SignedIn means a session exists and is persisted.
	SignedIn State = "signed_in"
	// AuthFailed means the last login attempt failed; the reason is
	// available until acknowledged.
	AuthFailed State = "auth_failed"
)

// FailureReason describes why a login attempt failed.
type FailureReason struct {
	Code    string
	Message string
}

// LoginAPI is the slice of the API client the controller needs.
type LoginAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*models.User, error)
	OAuthLogin(ctx context.Context, req api.OAuthLoginRequest) (*models.User, error)
}

// SessionStore persists the session across process restarts.
type SessionStore interface {
	Save(sess models.Session) error
	Load() (*models.Session, error)
	Clear() error
}

// Invalidator is notified on logout so cached derived state (the favorites
// view) is discarded together with the session.
type Invalidator interface {
	Invalidate()
}

// Controller owns the session state machine. All exported methods are safe
// for concurrent use.
type Controller struct {
	usersAPI LoginAPI
	store    SessionStore
	oauth    *GoogleAuthenticator
	logger   *slog.Logger
	validate *validator.Validate

	mu           sync.Mutex
	state        State
	session      *models.Session
	failure      *FailureReason
	invalidators []Invalidator
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// NewController creates a controller and resolves the initial state from
// the session store: SignedIn when a stored session loads, else SignedOut.
func NewController(usersAPI LoginAPI, store SessionStore, oauth *GoogleAuthenticator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		usersAPI: usersAPI,
		store:    store,
		oauth:    oauth,
		logger:   logger,
		validate: validator.New(),
		state:    SignedOut,
	}

	sess, err := store.Load()
	if err != nil {
		// A broken store must not block startup; begin signed out.
		logger.Warn("restoring session failed", "error", err)
		return c
	}
	if sess != nil {
		c.state = SignedIn
		c.session = sess
	}
	return c
}

// OnLogout registers an invalidator called whenever the session ends.
func (c *Controller) OnLogout(inv Invalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidators = append(c.invalidators, inv)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the current session, or nil when signed out.
func (c *Controller) Session() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	sess := *c.session
	return &sess
}

// Failure returns the reason for the last failed login, or nil.
func (c *Controller) Failure() *FailureReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure == nil {
		return nil
	}
	f := *c.failure
	return &f
}

// Login authenticates with username and password. On success the session is
// persisted before the transition to SignedIn. Failures are terminal for
// the attempt: the controller ends in AuthFailed and the user must retry.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if err := c.validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidCredentials)
	}
	if err := c.begin(); err != nil {
		return err
	}

	user, err := c.usersAPI.Login(ctx, api.LoginRequest{
		UserName:     username,
		UserPassword: password,
	})
	if err != nil {
		c.fail(err)
		return err
	}

	return c.establish(user, models.AuthPassword)
}

// LoginWithGoogle completes the OAuth flow: exchanges the authorization
// code, fetches the provider profile, and maps it to a local user through
// the backend.
func (c *Controller) LoginWithGoogle(ctx context.Context, code string) error {
	if c.oauth == nil {
		return errors.New("google sign-in is not configured")
	}
	if err := c.begin(); err != nil {
		return err
	}

	profile, err := c.oauth.ExchangeCode(ctx, code)
	if err != nil {
		c.fail(err)
		return err
	}

	return c.finishOAuth(ctx, profile)
}

// LoginWithGoogleToken signs in with an access token obtained out of band
// (the mobile consent flow hands the client a token, not a code).
func (c *Controller) LoginWithGoogleToken(ctx context.Context, accessToken string) error {
	if c.oauth == nil {
		return errors.New("google sign-in is not configured")
	}
	if err := c.begin(); err != nil {
		return err
	}

	profile, err := c.oauth.FetchProfile(ctx, accessToken)
	if err != nil {
		c.fail(err)
		return err
	}

	return c.finishOAuth(ctx, profile)
}

func (c *Controller) finishOAuth(ctx context.Context, profile *GoogleProfile) error {
	user, err := c.usersAPI.OAuthLogin(ctx, api.OAuthLoginRequest{
		Provider:   "google",
		ProviderID: profile.ID,
		Email:      profile.Email,
		Name:       profile.Name,
	})
	if err != nil {
		c.fail(err)
		return err
	}
	return c.establish(user, models.AuthOAuth)
}

// AuthURL returns the Google consent URL for the given state parameter.
func (c *Controller) AuthURL(state string) (string, error) {
	if c.oauth == nil {
		return "", errors.New("google sign-in is not configured")
	}
	return c.oauth.AuthURL(state), nil
}

// Logout tears the session down: storage cleared, in-memory session
// discarded, registered caches invalidated. A storage failure is logged and
// swallowed; logout must never leave the user unable to log out.
func (c *Controller) Logout() {
	c.mu.Lock()
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("clearing session storage failed; signing out anyway", "error", err)
	}
	c.session = nil
	c.failure = nil
	c.state = SignedOut
	invalidators := make([]Invalidator, len(c.invalidators))
	copy(invalidators, c.invalidators)
	c.mu.Unlock()

	for _, inv := range invalidators {
		inv.Invalidate()
	}
}

// Acknowledge dismisses a login failure, returning to SignedOut.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == AuthFailed {
		c.state = SignedOut
		c.failure = nil
	}
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Authenticating {
		return errors.New("a login attempt is already in progress")
	}
	c.state = Authenticating
	c.failure = nil
	return nil
}

func (c *Controller) establish(user *models.User, method models.AuthMethod) error {
	sess := models.Session{
		UserID:        user.ID,
		DisplayName:   user.UserName,
		AuthMethod:    method,
		EstablishedAt: time.Now(),
	}
	if err := c.store.Save(sess); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &sess
	c.state = SignedIn
	c.logger.Info("signed in", "userID", sess.UserID, "method", method)
	return nil
}

func (c *Controller) fail(err error) {
	reason := FailureReason{
		Code:    "network_unavailable",
		Message: apperrors.UserMessage(err),
	}
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		reason.Code = "invalid_credentials"
	case errors.Is(err, apperrors.ErrNetwork):
		reason.Code = "network_unavailable"
	default:
		if appErr, ok := apperrors.AsError(err); ok {
			reason.Code = appErr.Code
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AuthFailed
	c.failure = &reason
	c.logger.Warn("login failed", "code", reason.Code)
}
