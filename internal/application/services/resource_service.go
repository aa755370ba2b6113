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

// ResourceService handles business logic for directory resources.
type ResourceService struct {
	repo repositories.ResourceRepository
}

// NewResourceService creates a new resource service.
func NewResourceService(repo repositories.ResourceRepository) *ResourceService {
	return &ResourceService{repo: repo}
}

// ResourcePatch is a partial update, same rules as FacilityPatch.
type ResourcePatch struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Contact     *string `json:"contact,omitempty"`
	Website     *string `json:"website,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// Create validates and persists a new resource.
func (s *ResourceService) Create(ctx context.Context, resource *entities.Resource) error {
	if err := validateResource(resource); err != nil {
		return err
	}

	if resource.ID == "" {
		resource.ID = uuid.New().String()
	}
	resource.LastUpdated = time.Now().UTC()

	return s.repo.Create(ctx, resource)
}

// GetByID retrieves a resource by ID.
func (s *ResourceService) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves resources, optionally filtered by category.
func (s *ResourceService) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	return s.repo.List(ctx, filter)
}

// UpdatePartial merges a patch into the stored resource and saves it.
func (s *ResourceService) UpdatePartial(ctx context.Context, id string, patch *ResourcePatch) (*entities.Resource, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&resource.Name, patch.Name)
	applyString(&resource.Category, patch.Category)
	applyString(&resource.Description, patch.Description)
	applyString(&resource.Contact, patch.Contact)
	applyString(&resource.Website, patch.Website)
	applyString(&resource.Address, patch.Address)
	applyString(&resource.City, patch.City)
	applyString(&resource.State, patch.State)
	applyString(&resource.ZipCode, patch.ZipCode)
	applyString(&resource.LogoURL, patch.LogoURL)

	if err := validateResource(resource); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func validateResource(r *entities.Resource) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"category", r.Category},
		{"description", r.Description},
		{"contact", r.Contact},
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
