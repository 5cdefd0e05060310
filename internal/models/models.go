// Package models defines the data types shared across the Courtside client.
package models

import "time"

// AuthMethod identifies how a session was established.
type AuthMethod string

const (
	// AuthPassword is a username/password login.
	AuthPassword AuthMethod = "password"
	// AuthOAuth is a login through an OAuth provider.
	AuthOAuth AuthMethod = "oauth"
)

// Session represents the currently authenticated user. At most one session
// exists process-wide; absence of a session means unauthenticated.
type Session struct {
	UserID        int64      `json:"user_id"`
	DisplayName   string     `json:"display_name"`
	AuthMethod    AuthMethod `json:"auth_method"`
	EstablishedAt time.Time  `json:"established_at"`
}

// Team is a catalog entry from the remote API. Teams are fetched and never
// mutated locally.
type Team struct {
	TeamID     int64  `json:"teamID"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// FavoriteRecord is the server-side representation of "user U favorited
// team T". The backend names the id field "fav". TeamName is denormalized
// so favorites stay displayable when the team catalog is unavailable.
type FavoriteRecord struct {
	FavoriteID int64  `json:"fav"`
	UserID     int64  `json:"userID"`
	TeamID     int64  `json:"teamID"`
	TeamName   string `json:"teamName"`
}

// DisplayFavorite is a FavoriteRecord joined with its Team. When the catalog
// has no matching team the denormalized TeamName fills Name and the
// conference/division stay empty.
type DisplayFavorite struct {
	FavoriteID int64  `json:"fav"`
	TeamID     int64  `json:"teamID"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// Game is an upcoming game as returned by the remote API.
type Game struct {
	GameID       int64  `json:"gameID"`
	Date         string `json:"date"`
	HomeTeamName string `json:"hometeamName"`
	AwayTeamName string `json:"awayteamName"`
}

// TeamStats holds per-team season statistics, consumed read-only.
type TeamStats struct {
	StatID   int64   `json:"statID"`
	TeamID   int64   `json:"teamID"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinPct   float64 `json:"winPct"`
	PointsPG float64 `json:"pointsPerGame"`
}

// User is the response body of a successful login.
type User struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
}
