package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/courtsideapp/courtside-go/internal/apperrors"
)

const googleUserInfoURL = "https://www.googleapis.com/userinfo/v2/me"

// GoogleProfile is the user information returned by Google after consent.
type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HTTPClient is the interface for making HTTP requests (allows mocking in
// tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoogleAuthenticator drives the Google OAuth consent flow.
type GoogleAuthenticator struct {
	config      *oauth2.Config
	httpClient  HTTPClient
	userInfoURL string
}

// NewGoogleAuthenticator configures the Google flow. The client id and
// redirect URI come from configuration; the client secret is empty for
// installed/mobile applications.
func NewGoogleAuthenticator(clientID, redirectURI string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		config: &oauth2.Config{
			ClientID:    clientID,
			Endpoint:    google.Endpoint,
			RedirectURL: redirectURI,
			Scopes:      []string{"email", "profile"},
		},
		httpClient:  http.DefaultClient,
		userInfoURL: googleUserInfoURL,
	}
}

// WithHTTPClient replaces the HTTP client used for profile fetches. This is
// primarily used for testing.
func (g *GoogleAuthenticator) WithHTTPClient(client HTTPClient) *GoogleAuthenticator {
	g.httpClient = client
	return g
}

// WithEndpoints overrides the token and userinfo endpoints. This is
// primarily used for testing against a fake provider.
func (g *GoogleAuthenticator) WithEndpoints(tokenURL, authURL, userInfoURL string) *GoogleAuthenticator {
	g.config.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	g.userInfoURL = userInfoURL
	return g
}

// AuthURL returns the consent URL for the given state parameter.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode swaps an authorization code for a token and fetches the
// profile. A denied or expired code surfaces as a network-class failure;
// the user simply retries the flow.
func (g *GoogleAuthenticator) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", apperrors.ErrNetwork, err)
	}
	return g.FetchProfile(ctx, token.AccessToken)
}

// FetchProfile loads the Google profile for an access token.
func (g *GoogleAuthenticator) FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewServerError(resp.StatusCode, "provider rejected the access token")
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", apperrors.ErrMalformedResponse, err)
	}
	if profile.ID == "" {
		return nil, apperrors.NewMalformedError("provider profile carried no id")
	}
	return &profile, nil
}
