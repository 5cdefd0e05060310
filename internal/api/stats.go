package api

import (
	"context"

	"github.com/courtsideapp/courtside-go/internal/models"
)

// StatsService handles per-team season statistics.
type StatsService struct {
	client *Client
}

// List returns statistics for all teams.
func (s *StatsService) List(ctx context.Context) ([]models.TeamStats, error) {
	return fetchCollection[models.TeamStats](ctx, s.client, "/stats", "statList")
}

// ForTeam returns the statistics row for one team, or nil when the backend
// has none for it. The backend only exposes the full listing, so this
// filters client-side.
func (s *StatsService) ForTeam(ctx context.Context, teamID int64) (*models.TeamStats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].TeamID == teamID {
			return &all[i], nil
		}
	}
	return nil, nil
}
