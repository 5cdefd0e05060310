package api

import (
	"context"

	"github.com/courtsideapp/courtside-go/internal/models"
)

// GamesService handles the upcoming-games listing.
type GamesService struct {
	client *Client
}

// List returns upcoming games in server order.
func (s *GamesService) List(ctx context.Context) ([]models.Game, error) {
	return fetchCollection[models.Game](ctx, s.client, "/games", "gameList")
}
