package entities

import (
	"time"
)

// Resource category enumeration, distinct from facility types.
const (
	ResourceCategorySeniorLiving    = "senior_living"
	ResourceCategoryHealthWellness  = "health_wellness"
	ResourceCategorySocialCommunity = "social_community"
	ResourceCategoryTransportation  = "transportation"
	ResourceCategoryFinancialLegal  = "financial_legal"
	ResourceCategoryHousing         = "housing"
	ResourceCategoryOther           = "other"
)

// Resource represents a non-facility support service (transportation, legal
// aid, home care agencies and so on). Same optionality rules as Facility
// minus amenities and services.
type Resource struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	Contact      string    `json:"contact" db:"contact"`
	Website      string    `json:"website,omitempty" db:"website"`
	Address      string    `json:"address,omitempty" db:"address"`
	City         string    `json:"city,omitempty" db:"city"`
	State        string    `json:"state,omitempty" db:"state"`
	ZipCode      string    `json:"zip_code,omitempty" db:"zip_code"`
	Rating       string    `json:"rating,omitempty" db:"rating"`
	ReviewsCount int       `json:"reviews_count" db:"reviews_count"`
	Reviews      []Review  `json:"reviews,omitempty" db:"-"`
	Photos       []Photo   `json:"photos,omitempty" db:"-"`
	ExternalID   string    `json:"external_id,omitempty" db:"external_id"`
	LogoURL      string    `json:"logo_url,omitempty" db:"logo_url"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}
