package providers

import (
	"context"
	"encoding/json"
)

// PlacesScraper is the port for the third-party places/reviews collaborator.
// Items come back raw; parsing and canonicalization happen at the ingestion
// boundary so a malformed item can be quarantined per-item.
type PlacesScraper interface {
	// ScrapePlaces runs one scrape for a location search term and returns the
	// raw dataset items.
	ScrapePlaces(ctx context.Context, location string) ([]json.RawMessage, error)

	// Configured reports whether the required credential is present.
	Configured() bool
}
