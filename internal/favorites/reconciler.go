// Package favorites maintains the client's view of which teams the current
// user has favorited: it joins the remote favorites with the team catalog,
// and applies optimistic add/remove with rollback on failure.
package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/courtsideapp/courtside-go/internal/api"
	"github.com/courtsideapp/courtside-go/internal/apperrors"
	"github.com/courtsideapp/courtside-go/internal/models"
)

// FavoritesAPI is the slice of the API client the reconciler needs for
// favorite records.
type FavoritesAPI interface {
	ListForUser(ctx context.Context, userID int64) ([]models.FavoriteRecord, error)
	Create(ctx context.Context, req api.CreateFavoriteRequest) (*models.FavoriteRecord, error)
	Delete(ctx context.Context, favoriteID int64) error
}

// TeamsAPI fetches the team catalog.
type TeamsAPI interface {
	List(ctx context.Context) ([]models.Team, error)
}

// Action says which way a toggle went.
type Action string

const (
	// Added means the toggle created a favorite.
	Added Action = "added"
	// Removed means the toggle deleted a favorite.
	Removed Action = "removed"
)

// ToggleOutcome reports a confirmed toggle.
type ToggleOutcome struct {
	Action Action
	TeamID int64
}

// Reconciler exclusively owns the favorited-set and the derived display
// sequence. All mutation goes through Refresh, Toggle and Invalidate;
// remote calls happen outside the lock, so in-memory commits are atomic
// with respect to concurrent operations.
type Reconciler struct {
	favsAPI  FavoritesAPI
	teamsAPI TeamsAPI
	logger   *slog.Logger

	mu         sync.Mutex
	favorited  map[int64]struct{}
	view       []models.DisplayFavorite
	pending    map[int64]pendingToggle
	generation uint64
}

// pendingToggle records the optimistic intent for one team while its remote
// write is in flight, plus everything needed to roll it back.
type pendingToggle struct {
	adding   bool
	prior    *models.DisplayFavorite // display entry before a remove, nil for adds
	priorSet bool                    // membership before the toggle
}

// New creates a reconciler over the given API services.
func New(favsAPI FavoritesAPI, teamsAPI TeamsAPI, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		favsAPI:   favsAPI,
		teamsAPI:  teamsAPI,
		logger:    logger,
		favorited: make(map[int64]struct{}),
		pending:   make(map[int64]pendingToggle),
	}
}

// Refresh fetches the user's favorites and the team catalog concurrently,
// joins them, and replaces the view atomically. If either fetch fails the
// prior view is kept unchanged and the failure is returned: refresh is
// all-or-nothing.
func (r *Reconciler) Refresh(ctx context.Context, userID int64) ([]models.DisplayFavorite, error) {
	r.mu.Lock()
	gen := r.generation
	r.mu.Unlock()

	var (
		favs  []models.FavoriteRecord
		teams []models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favs, err = r.favsAPI.ListForUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = r.teamsAPI.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh favorites: %w", err)
	}

	view := join(favs, teams)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		// The session ended while the fetch was in flight; drop the result.
		return nil, nil
	}

	set := make(map[int64]struct{}, len(view))
	for _, df := range view {
		set[df.TeamID] = struct{}{}
	}

	// In-flight toggles win over a concurrently arriving snapshot: the
	// user's most recent intent is re-applied on top of it.
	for teamID, p := range r.pending {
		if p.adding {
			if _, ok := set[teamID]; !ok {
				set[teamID] = struct{}{}
				if p.prior != nil {
					view = append(view, *p.prior)
				}
			}
		} else {
			delete(set, teamID)
			view = removeByTeam(view, teamID)
		}
	}

	r.favorited = set
	r.view = view

	// Copy inline; Favorites() would re-lock the held mutex.
	out := make([]models.DisplayFavorite, len(r.view))
	copy(out, r.view)
	return out, nil
}

// IsFavorited reports membership in the current favorited-set. It reflects
// the latest successful refresh plus any optimistic toggles.
func (r *Reconciler) IsFavorited(teamID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorited[teamID]
	return ok
}

// Favorites returns a copy of the current display sequence.
func (r *Reconciler) Favorites() []models.DisplayFavorite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.DisplayFavorite, len(r.view))
	copy(out, r.view)
	return out
}

// Invalidate discards the cached set and view. Any in-flight operation
// started before the call completes as a no-op.
func (r *Reconciler) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.favorited = make(map[int64]struct{})
	r.view = nil
	r.pending = make(map[int64]pendingToggle)
}

// Toggle flips the favorite state of team for userID. The local view is
// updated immediately; the remote write confirms it or triggers a rollback.
// A second toggle for the same team while one is in flight is rejected with
// ToggleInProgress.
func (r *Reconciler) Toggle(ctx context.Context, userID int64, team models.Team) (ToggleOutcome, error) {
	r.mu.Lock()
	if _, inFlight := r.pending[team.TeamID]; inFlight {
		r.mu.Unlock()
		return ToggleOutcome{}, apperrors.ErrToggleInProgress
	}

	gen := r.generation
	_, wasFavorited := r.favorited[team.TeamID]
	p := pendingToggle{adding: !wasFavorited, priorSet: wasFavorited}

	if wasFavorited {
		// Optimistic remove; remember a copy of the entry for rollback and
		// for the favorite id lookup (removeByTeam compacts in place, so a
		// pointer into the view would not survive).
		if entry := findByTeam(r.view, team.TeamID); entry != nil {
			cp := *entry
			p.prior = &cp
		}
		delete(r.favorited, team.TeamID)
		r.view = removeByTeam(r.view, team.TeamID)
	} else {
		// Optimistic add; the server id arrives with the confirmation.
		entry := models.DisplayFavorite{
			TeamID:     team.TeamID,
			Name:       team.Name,
			Conference: team.Conference,
			Division:   team.Division,
		}
		p.prior = &entry
		r.favorited[team.TeamID] = struct{}{}
		r.view = append(r.view, entry)
	}
	r.pending[team.TeamID] = p
	r.mu.Unlock()

	var err error
	if p.adding {
		err = r.confirmAdd(ctx, userID, team, gen)
	} else {
		err = r.confirmRemove(ctx, userID, team.TeamID, p.prior, gen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.generation {
		delete(r.pending, team.TeamID)
		if err != nil {
			r.rollback(team.TeamID, p)
		}
	}
	if err != nil {
		return ToggleOutcome{}, err
	}

	action := Removed
	if p.adding {
		action = Added
	}
	return ToggleOutcome{Action: action, TeamID: team.TeamID}, nil
}

func (r *Reconciler) confirmAdd(ctx context.Context, userID int64, team models.Team, gen uint64) error {
	record, err := r.favsAPI.Create(ctx, api.CreateFavoriteRequest{
		UserID:   userID,
		TeamID:   team.TeamID,
		TeamName: team.Name,
	})
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return nil
	}
	if entry := findByTeam(r.view, team.TeamID); entry != nil {
		entry.FavoriteID = record.FavoriteID
	}
	return nil
}

// confirmRemove deletes the favorite record on the server. The id comes
// from the displaced view entry when resident, otherwise from a re-fetch:
// the remove path must never fail merely because the local cache is stale.
func (r *Reconciler) confirmRemove(ctx context.Context, userID, teamID int64, prior *models.DisplayFavorite, gen uint64) error {
	var favoriteID int64
	if prior != nil {
		favoriteID = prior.FavoriteID
	}
	if favoriteID == 0 {
		records, err := r.favsAPI.ListForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve favorite id: %w", err)
		}
		for _, rec := range records {
			if rec.TeamID == teamID {
				favoriteID = rec.FavoriteID
				break
			}
		}
		if favoriteID == 0 {
			// Already gone on the server; the removal stands confirmed.
			r.logger.Debug("favorite already removed remotely", "teamID", teamID)
			return nil
		}
	}

	if err := r.favsAPI.Delete(ctx, favoriteID); err != nil {
		if appErr, ok := apperrors.AsError(err); ok && appErr.StatusCode == http.StatusNotFound {
			// The record vanished between our snapshot and the delete; the
			// removal stands confirmed either way.
			r.logger.Debug("favorite already removed remotely", "teamID", teamID)
			return nil
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// rollback reverts the optimistic mutation for teamID to its pre-toggle
// value.
func (r *Reconciler) rollback(teamID int64, p pendingToggle) {
	if p.priorSet {
		r.favorited[teamID] = struct{}{}
		if p.prior != nil && findByTeam(r.view, teamID) == nil {
			r.view = append(r.view, *p.prior)
		}
	} else {
		delete(r.favorited, teamID)
		r.view = removeByTeam(r.view, teamID)
	}
	r.logger.Warn("favorite toggle rolled back", "teamID", teamID)
}

// join left-joins favorite records with the team catalog by team id,
// falling back to the record's denormalized team name on a miss.
func join(favs []models.FavoriteRecord, teams []models.Team) []models.DisplayFavorite {
	byID := make(map[int64]models.Team, len(teams))
	for _, t := range teams {
		byID[t.TeamID] = t
	}

	view := make([]models.DisplayFavorite, 0, len(favs))
	for _, f := range favs {
		df := models.DisplayFavorite{
			FavoriteID: f.FavoriteID,
			TeamID:     f.TeamID,
			Name:       f.TeamName,
		}
		if t, ok := byID[f.TeamID]; ok {
			df.Name = t.Name
			df.Conference = t.Conference
			df.Division = t.Division
		}
		view = append(view, df)
	}
	return view
}

func findByTeam(view []models.DisplayFavorite, teamID int64) *models.DisplayFavorite {
	for i := range view {
		if view[i].TeamID == teamID {
			return &view[i]
		}
	}
	return nil
}

func removeByTeam(view []models.DisplayFavorite, teamID int64) []models.DisplayFavorite {
	out := view[:0]
	for _, df := range view {
		if df.TeamID != teamID {
			out = append(out, df)
		}
	}
	return out
}
