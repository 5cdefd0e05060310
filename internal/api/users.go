package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/courtsideapp/courtside-go/internal/apperrors"
	"github.com/courtsideapp/courtside-go/internal/models"
)

// UsersService handles authentication against the backend.
type UsersService struct {
	client *Client
}

// LoginRequest is the credential login request. The backend's field names
// are userName/userPassword.
type LoginRequest struct {
	UserName     string `json:"userName"`
	UserPassword string `json:"userPassword"`
}

// OAuthLoginRequest links an OAuth provider profile to a local account,
// creating one on first sign-in.
type OAuthLoginRequest struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"providerID"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// Login authenticates with username and password. A 401/403/404 from the
// backend means the credentials were rejected, not that the service failed.
func (s *UsersService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.client.post(ctx, "/users/login", req, &user); err != nil {
		return nil, classifyLoginError(err)
	}
	if user.ID == 0 {
		return nil, apperrors.NewMalformedError("login response carried no user id")
	}
	return &user, nil
}

// OAuthLogin maps a provider profile to a local user via the backend.
func (s *UsersService) OAuthLogin(ctx context.Context, req OAuthLoginRequest) (*models.User, error) {
	var user models.User
	if err := s.client.post(ctx, "/users/oauth", req, &user); err != nil {
		return nil, classifyLoginError(err)
	}
	if user.ID == 0 {
		// An OAuth success that yields no local user id leaves the client
		// unauthenticated; treat it as an unusable response.
		return nil, apperrors.NewMalformedError("oauth login response carried no user id")
	}
	return &user, nil
}

func classifyLoginError(err error) error {
	appErr, ok := apperrors.AsError(err)
	if !ok || !errors.Is(err, apperrors.ErrServer) {
		return err
	}
	switch appErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidCredentials, appErr.Message)
	default:
		return err
	}
}
