package repositories

import (
	"context"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// FavoriteRepository is the persistence port for the global bookmark set.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entities.Favorite) error
	Remove(ctx context.Context, itemType, itemID string) error
	List(ctx context.Context) ([]*entities.Favorite, error)
}
