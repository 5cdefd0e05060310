package api

import (
	"context"
	"fmt"

	"github.com/courtsideapp/courtside-go/internal/models"
)

// FavoritesService handles favorite records.
type FavoritesService struct {
	client *Client
}

// CreateFavoriteRequest is the request for creating a favorite.
type CreateFavoriteRequest struct {
	// UserID is the owning user (required).
	UserID int64 `json:"userID"`
	// TeamID is the favorited team (required).
	TeamID int64 `json:"teamID"`
	// TeamName is denormalized onto the record for display resilience.
	TeamName string `json:"teamName"`
}

// ListForUser returns the user's favorite records in server order.
func (s *FavoritesService) ListForUser(ctx context.Context, userID int64) ([]models.FavoriteRecord, error) {
	path := fmt.Sprintf("/favs/user/%d", userID)
	return fetchCollection[models.FavoriteRecord](ctx, s.client, path, "favList")
}

// Create adds a favorite and returns the created record.
func (s *FavoritesService) Create(ctx context.Context, req CreateFavoriteRequest) (*models.FavoriteRecord, error) {
	var record models.FavoriteRecord
	if err := s.client.post(ctx, "/favs", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a favorite by its server-assigned id.
func (s *FavoritesService) Delete(ctx context.Context, favoriteID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/favs/%d", favoriteID))
}
