package repositories

import (
	"context"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// ResourceFilter narrows List results.
type ResourceFilter struct {
	Category string
	Limit    int
	Offset   int
}

// ResourceRepository is the persistence port for resources.
type ResourceRepository interface {
	Create(ctx context.Context, resource *entities.Resource) error
	GetByID(ctx context.Context, id string) (*entities.Resource, error)
	GetByExternalID(ctx context.Context, externalID string) (*entities.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]*entities.Resource, error)
	Update(ctx context.Context, resource *entities.Resource) error
	UpdateScrapeData(ctx context.Context, id string, update ScrapeUpdate) error

	// SearchText performs case-insensitive substring retrieval over
	// name/description. An empty query matches everything.
	SearchText(ctx context.Context, query string) ([]*entities.Resource, error)
}
