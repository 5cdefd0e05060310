// Package api provides the Courtside REST API client. It fetches the
// remote collections (teams, favorites, games, stats) and normalizes the
// backend's HATEOAS envelope into plain slices of records.
package api

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the hosted Courtside backend.
	DefaultBaseURL = "https://project2cst438group9-70c9b7b662e0.herokuapp.com"
	// DefaultTimeout is the default HTTP client timeout, one attempt per call.
	DefaultTimeout = 15 * time.Second
)

// Client is the Courtside API client.
//
// Use NewClient to create one:
//
//	client := api.NewClient(api.WithBaseURL(cfg.API.BaseURL))
type Client struct {
	baseURL    string
	installID  string
	httpClient *http.Client

	// Services
	Teams     *TeamsService
	Favorites *FavoritesService
	Users     *UsersService
	Games     *GamesService
	Stats     *StatsService
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInstallID sets the install identifier sent as X-Install-ID on every
// request, letting the backend correlate calls from one device.
func WithInstallID(id string) Option {
	return func(c *Client) {
		c.installID = id
	}
}

// NewClient creates a new Courtside API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Initialize services
	c.Teams = &TeamsService{client: c}
	c.Favorites = &FavoritesService{client: c}
	c.Users = &UsersService{client: c}
	c.Games = &GamesService{client: c}
	c.Stats = &StatsService{client: c}

	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
