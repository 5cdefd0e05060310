package api

import (
	"context"

	"github.com/courtsideapp/courtside-go/internal/models"
)

// TeamsService handles the team catalog.
type TeamsService struct {
	client *Client
}

// List returns all teams in catalog order.
func (s *TeamsService) List(ctx context.Context) ([]models.Team, error) {
	return fetchCollection[models.Team](ctx, s.client, "/teams", "teamList")
}
