// Package apitest provides an in-memory fake of the Courtside backend for
// tests. It speaks the real wire format, including the HATEOAS envelope.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/courtsideapp/courtside-go/internal/models"
)

// Credentials is a seeded username/password pair.
type Credentials struct {
	UserName string
	Password string
}

// Server is the fake backend. Mutate the exported fields between requests
// to shape responses; all handlers lock internally.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	teams   []models.Team
	favs    map[int64]models.FavoriteRecord // by favorite id
	games   []models.Game
	stats   []models.TeamStats
	users   map[string]Credentials // by username
	userIDs map[string]int64
	nextFav int64
	nextUID int64

	// FailTeams makes GET /teams return 500.
	FailTeams bool
	// FailFavs makes all /favs routes return 500.
	FailFavs bool
	// MalformedTeams makes GET /teams return an unparsable body.
	MalformedTeams bool

	// FavWrites counts POST and DELETE calls on /favs.
	FavWrites int
}

// New starts a fake backend. Close it with Server.Close.
func New(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		favs:    make(map[int64]models.FavoriteRecord),
		users:   make(map[string]Credentials),
		userIDs: make(map[string]int64),
		nextFav: 1,
		nextUID: 1,
	}

	r := chi.NewRouter()
	r.Get("/teams", s.handleTeams)
	r.Get("/favs/user/{userID}", s.handleFavsForUser)
	r.Post("/favs", s.handleCreateFav)
	r.Delete("/favs/{favID}", s.handleDeleteFav)
	r.Post("/users/login", s.handleLogin)
	r.Post("/users/oauth", s.handleOAuthLogin)
	r.Get("/games", s.handleGames)
	r.Get("/stats", s.handleStats)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// SeedTeams replaces the team catalog.
func (s *Server) SeedTeams(teams ...models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = teams
}

// SeedUser registers a login and returns its user id.
func (s *Server) SeedUser(username, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextUID
	s.nextUID++
	s.users[username] = Credentials{UserName: username, Password: password}
	s.userIDs[username] = id
	return id
}

// SeedFavorite inserts a favorite record and returns its id.
func (s *Server) SeedFavorite(userID, teamID int64, teamName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextFav
	s.nextFav++
	s.favs[id] = models.FavoriteRecord{FavoriteID: id, UserID: userID, TeamID: teamID, TeamName: teamName}
	return id
}

// SeedGames replaces the games listing.
func (s *Server) SeedGames(games ...models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = games
}

// SeedStats replaces the stats listing.
func (s *Server) SeedStats(stats ...models.TeamStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// FavoritesFor returns the stored favorites for a user.
func (s *Server) FavoritesFor(userID int64) []models.FavoriteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FavoriteRecord
	for _, f := range s.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTeams {
		writeError(w, http.StatusInternalServerError, "teams unavailable")
		return
	}
	if s.MalformedTeams {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_embedded":{"teamList":"not-a-list"}}`))
		return
	}
	writeEnvelope(w, "teamList", s.teams)
}

func (s *Server) handleFavsForUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFavs {
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	userID, _ := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	var favs []models.FavoriteRecord
	for id := int64(1); id < s.nextFav; id++ {
		if f, ok := s.favs[id]; ok && f.UserID == userID {
			favs = append(favs, f)
		}
	}
	writeEnvelope(w, "favList", favs)
}

func (s *Server) handleCreateFav(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FavWrites++
	if s.FailFavs {
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	var req struct {
		UserID   int64  `json:"userID"`
		TeamID   int64  `json:"teamID"`
		TeamName string `json:"teamName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	// One favorite per (user, team)
	for _, f := range s.favs {
		if f.UserID == req.UserID && f.TeamID == req.TeamID {
			writeError(w, http.StatusConflict, "already favorited")
			return
		}
	}
	rec := models.FavoriteRecord{
		FavoriteID: s.nextFav,
		UserID:     req.UserID,
		TeamID:     req.TeamID,
		TeamName:   req.TeamName,
	}
	s.nextFav++
	s.favs[rec.FavoriteID] = rec
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteFav(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FavWrites++
	if s.FailFavs {
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	favID, _ := strconv.ParseInt(chi.URLParam(r, "favID"), 10, 64)
	if _, ok := s.favs[favID]; !ok {
		writeError(w, http.StatusNotFound, "favorite not found")
		return
	}
	delete(s.favs, favID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req struct {
		UserName     string `json:"userName"`
		UserPassword string `json:"userPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	cred, ok := s.users[req.UserName]
	if !ok || cred.Password != req.UserPassword {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, models.User{ID: s.userIDs[req.UserName], UserName: req.UserName})
}

func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req struct {
		Provider   string `json:"provider"`
		ProviderID string `json:"providerID"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderID == "" {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	key := req.Provider + ":" + req.ProviderID
	id, ok := s.userIDs[key]
	if !ok {
		id = s.nextUID
		s.nextUID++
		s.userIDs[key] = id
	}
	writeJSON(w, http.StatusOK, models.User{ID: id, UserName: req.Name})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeEnvelope(w, "gameList", s.games)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeEnvelope(w, "statList", s.stats)
}

// writeEnvelope wraps records the way the real backend does. An empty
// collection is sent without _embedded, matching Spring's serializer.
func writeEnvelope[T any](w http.ResponseWriter, key string, records []T) {
	if len(records) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_embedded": map[string]any{key: records},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
