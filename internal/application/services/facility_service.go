package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

// FacilityService handles business logic for facilities.
type FacilityService struct {
	repo repositories.FacilityRepository
}

// NewFacilityService creates a new facility service.
func NewFacilityService(repo repositories.FacilityRepository) *FacilityService {
	return &FacilityService{repo: repo}
}

// FacilityPatch is a partial update. Nil pointers and nil slices mean "leave
// the stored value alone"; an explicit empty slice clears the collection.
type FacilityPatch struct {
	Name         *string  `json:"name,omitempty"`
	FacilityType *string  `json:"facility_type,omitempty"`
	Address      *string  `json:"address,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	ZipCode      *string  `json:"zip_code,omitempty"`
	County       *string  `json:"county,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Email        *string  `json:"email,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Services     []string `json:"services,omitempty"`
	LogoURL      *string  `json:"logo_url,omitempty"`
}

// Create validates and persists a new facility. An ID is assigned when the
// caller does not supply one.
func (s *FacilityService) Create(ctx context.Context, facility *entities.Facility) error {
	if err := validateFacility(facility); err != nil {
		return err
	}

	if facility.ID == "" {
		facility.ID = uuid.New().String()
	}
	if facility.FacilityType == "" {
		facility.FacilityType = entities.FacilityTypeOther
	}
	facility.LastUpdated = time.Now().UTC()

	return s.repo.Create(ctx, facility)
}

// GetByID retrieves a facility by ID.
func (s *FacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves facilities, optionally filtered by type.
func (s *FacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	return s.repo.List(ctx, filter)
}

// UpdatePartial merges a patch into the stored facility and saves it. Fields
// absent from the patch are untouched.
func (s *FacilityService) UpdatePartial(ctx context.Context, id string, patch *FacilityPatch) (*entities.Facility, error) {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&facility.Name, patch.Name)
	applyString(&facility.FacilityType, patch.FacilityType)
	applyString(&facility.Address, patch.Address)
	applyString(&facility.City, patch.City)
	applyString(&facility.State, patch.State)
	applyString(&facility.ZipCode, patch.ZipCode)
	applyString(&facility.County, patch.County)
	applyString(&facility.Phone, patch.Phone)
	applyString(&facility.Email, patch.Email)
	applyString(&facility.Website, patch.Website)
	applyString(&facility.Description, patch.Description)
	applyString(&facility.LogoURL, patch.LogoURL)
	if patch.Amenities != nil {
		facility.Amenities = patch.Amenities
	}
	if patch.Services != nil {
		facility.Services = patch.Services
	}

	if err := validateFacility(facility); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, err
	}
	return facility, nil
}

func validateFacility(f *entities.Facility) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"zip_code", f.ZipCode},
		{"phone", f.Phone},
		{"description", f.Description},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}
