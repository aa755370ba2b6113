package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

// FavoriteService handles the global bookmark set.
type FavoriteService struct {
	repo repositories.FavoriteRepository
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(repo repositories.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// Add bookmarks an item. Re-adding an existing bookmark is a no-op.
func (s *FavoriteService) Add(ctx context.Context, itemType, itemID string) error {
	if !entities.ValidFavoriteType(itemType) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid item type %q", itemType))
	}
	if itemID == "" {
		return apperrors.NewValidationError("item id is required")
	}

	return s.repo.Add(ctx, &entities.Favorite{
		ItemType:  itemType,
		ItemID:    itemID,
		CreatedAt: time.Now().UTC(),
	})
}

// Remove deletes a bookmark. Removing one that does not exist is a not-found
// error.
func (s *FavoriteService) Remove(ctx context.Context, itemType, itemID string) error {
	if !entities.ValidFavoriteType(itemType) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid item type %q", itemType))
	}
	return s.repo.Remove(ctx, itemType, itemID)
}

// List returns every bookmark, newest first.
func (s *FavoriteService) List(ctx context.Context) ([]*entities.Favorite, error) {
	return s.repo.List(ctx)
}
