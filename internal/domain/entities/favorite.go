package entities

import (
	"time"
)

// Favorite item kinds.
const (
	FavoriteTypeFacility = "facility"
	FavoriteTypeResource = "resource"
)

// Favorite is a bookmark on a facility or resource. There is no owning user:
// the set is global and unauthenticated, which is a known gap to revisit once
// an auth model exists.
type Favorite struct {
	ItemType  string    `json:"item_type" db:"item_type"`
	ItemID    string    `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidFavoriteType reports whether t names a bookmarkable kind.
func ValidFavoriteType(t string) bool {
	return t == FavoriteTypeFacility || t == FavoriteTypeResource
}
