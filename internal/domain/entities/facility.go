package entities

import (
	"time"
)

// Facility type enumeration. Derived from scrape category labels by the
// ingestion transformer; "senior_living" is the only type that by itself
// classifies an item as a facility.
const (
	FacilityTypeSeniorLiving      = "senior_living"
	FacilityTypeAssistedLiving    = "assisted_living"
	FacilityTypeMemoryCare        = "memory_care"
	FacilityTypeIndependentLiving = "independent_living"
	FacilityTypeSkilledNursing    = "skilled_nursing"
	FacilityTypeOther             = "other"
)

// Facility represents a physical senior-care location.
//
// Name, address, city, state, zip, phone and description are always present;
// everything else is optional. ExternalID, when set, is the preferred
// deduplication key for re-imports.
type Facility struct {
	ID             string           `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	FacilityType   string           `json:"facility_type" db:"facility_type"`
	Address        string           `json:"address" db:"address"`
	City           string           `json:"city" db:"city"`
	State          string           `json:"state" db:"state"`
	ZipCode        string           `json:"zip_code" db:"zip_code"`
	County         string           `json:"county,omitempty" db:"county"`
	Phone          string           `json:"phone" db:"phone"`
	Email          string           `json:"email,omitempty" db:"email"`
	Website        string           `json:"website,omitempty" db:"website"`
	Description    string           `json:"description" db:"description"`
	Amenities      []string         `json:"amenities,omitempty" db:"-"`
	Services       []string         `json:"services,omitempty" db:"-"`
	ServicesDetail []ServicePricing `json:"services_detail,omitempty" db:"-"`
	Rating         string           `json:"rating,omitempty" db:"rating"`
	ReviewsCount   int              `json:"reviews_count" db:"reviews_count"`
	Reviews        []Review         `json:"reviews,omitempty" db:"-"`
	Photos         []Photo          `json:"photos,omitempty" db:"-"`
	ExternalID     string           `json:"external_id,omitempty" db:"external_id"`
	LogoURL        string           `json:"logo_url,omitempty" db:"logo_url"`
	LastUpdated    time.Time        `json:"last_updated" db:"last_updated"`
}

// ServicePricing is the object-shaped service representation produced by the
// web-content extraction collaborator. It coexists with the flat Services
// list; the flat list is what search and filters see.
type ServicePricing struct {
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
	Blurb string `json:"blurb,omitempty"`
}

// Review is embedded inside Facility/Resource rows. Date is kept as the
// source string, not a parsed time.
type Review struct {
	Author string   `json:"author"`
	Date   string   `json:"date"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
	Source string   `json:"source,omitempty"`
}

// Photo is embedded the same way Review is.
type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Source  string `json:"source,omitempty"`
}
