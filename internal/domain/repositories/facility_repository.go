package repositories

import (
	"context"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// FacilityFilter narrows List results.
type FacilityFilter struct {
	FacilityType string
	Limit        int
	Offset       int
}

// ScrapeUpdate carries the only fields an automated refresh may touch.
// Descriptive fields (name, address, description, amenities...) are curated
// and must never be overwritten by a re-scrape. Nil Reviews/Photos mean "no
// data this pass" and leave the stored collections alone.
type ScrapeUpdate struct {
	Rating       string
	ReviewsCount int
	Reviews      []entities.Review
	Photos       []entities.Photo
}

// FacilityRepository is the persistence port for facilities.
type FacilityRepository interface {
	Create(ctx context.Context, facility *entities.Facility) error
	GetByID(ctx context.Context, id string) (*entities.Facility, error)
	GetByExternalID(ctx context.Context, externalID string) (*entities.Facility, error)
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)
	Update(ctx context.Context, facility *entities.Facility) error
	UpdateScrapeData(ctx context.Context, id string, update ScrapeUpdate) error

	// SearchText performs case-insensitive substring retrieval over
	// name/description/city/address. An empty query matches everything.
	SearchText(ctx context.Context, query string) ([]*entities.Facility, error)
}
