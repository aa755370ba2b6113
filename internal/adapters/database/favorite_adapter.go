package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

// FavoriteAdapter implements FavoriteRepository on PostgreSQL
type FavoriteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFavoriteAdapter creates a new favorite adapter
func NewFavoriteAdapter(client *postgres.Client) repositories.FavoriteRepository {
	return &FavoriteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Add bookmarks an item. Re-adding an existing bookmark is a no-op.
func (a *FavoriteAdapter) Add(ctx context.Context, favorite *entities.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("favorites").
		Rows(goqu.Record{
			"item_type":  favorite.ItemType,
			"item_id":    favorite.ItemID,
			"created_at": favorite.CreatedAt,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to add favorite", err)
	}

	return nil
}

// Remove deletes a bookmark
func (a *FavoriteAdapter) Remove(ctx context.Context, itemType, itemID string) error {
	query, args, err := a.db.Delete("favorites").
		Where(goqu.Ex{"item_type": itemType, "item_id": itemID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to remove favorite", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("favorite %s/%s not found", itemType, itemID))
	}

	return nil
}

// List returns all bookmarks, newest first
func (a *FavoriteAdapter) List(ctx context.Context) ([]*entities.Favorite, error) {
	query, args, err := a.db.Select("item_type", "item_id", "created_at").
		From("favorites").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list favorites", err)
	}
	defer rows.Close()

	favorites := []*entities.Favorite{}
	for rows.Next() {
		favorite := &entities.Favorite{}
		if err := rows.Scan(&favorite.ItemType, &favorite.ItemID, &favorite.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating favorites", err)
	}

	return favorites, nil
}
