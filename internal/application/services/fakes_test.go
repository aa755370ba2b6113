package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

func testConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "config")
}

func newTestRules(t *testing.T) *Rules {
	t.Helper()
	rules, err := LoadRules(testConfigDir())
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	return rules
}

// fakeFacilityRepo is an in-memory FacilityRepository with the same search
// and scrape-update semantics as the database adapter.
type fakeFacilityRepo struct {
	facilities []*entities.Facility
}

func (r *fakeFacilityRepo) Create(_ context.Context, f *entities.Facility) error {
	r.facilities = append(r.facilities, f)
	return nil
}

func (r *fakeFacilityRepo) GetByID(_ context.Context, id string) (*entities.Facility, error) {
	for _, f := range r.facilities {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility %s not found", id))
}

func (r *fakeFacilityRepo) GetByExternalID(_ context.Context, externalID string) (*entities.Facility, error) {
	for _, f := range r.facilities {
		if f.ExternalID != "" && f.ExternalID == externalID {
			return f, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with external id %s not found", externalID))
}

func (r *fakeFacilityRepo) List(_ context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	var out []*entities.Facility
	for _, f := range r.facilities {
		if filter.FacilityType != "" && f.FacilityType != filter.FacilityType {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, facility *entities.Facility) error {
	for i, f := range r.facilities {
		if f.ID == facility.ID {
			r.facilities[i] = facility
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("facility %s not found", facility.ID))
}

func (r *fakeFacilityRepo) UpdateScrapeData(_ context.Context, id string, update repositories.ScrapeUpdate) error {
	for _, f := range r.facilities {
		if f.ID != id {
			continue
		}
		if update.Rating != "" {
			f.Rating = update.Rating
			f.ReviewsCount = update.ReviewsCount
		}
		if len(update.Reviews) > 0 {
			f.Reviews = update.Reviews
		}
		if len(update.Photos) > 0 {
			f.Photos = update.Photos
		}
		f.LastUpdated = time.Now()
		return nil
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("facility %s not found", id))
}

func (r *fakeFacilityRepo) SearchText(_ context.Context, query string) ([]*entities.Facility, error) {
	q := strings.ToLower(query)
	var out []*entities.Facility
	for _, f := range r.facilities {
		if q == "" ||
			strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.Description), q) ||
			strings.Contains(strings.ToLower(f.City), q) ||
			strings.Contains(strings.ToLower(f.Address), q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// fakeResourceRepo mirrors fakeFacilityRepo for resources.
type fakeResourceRepo struct {
	resources []*entities.Resource
}

func (r *fakeResourceRepo) Create(_ context.Context, res *entities.Resource) error {
	r.resources = append(r.resources, res)
	return nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id string) (*entities.Resource, error) {
	for _, res := range r.resources {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("resource %s not found", id))
}

func (r *fakeResourceRepo) GetByExternalID(_ context.Context, externalID string) (*entities.Resource, error) {
	for _, res := range r.resources {
		if res.ExternalID != "" && res.ExternalID == externalID {
			return res, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("resource with external id %s not found", externalID))
}

func (r *fakeResourceRepo) List(_ context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	var out []*entities.Resource
	for _, res := range r.resources {
		if filter.Category != "" && res.Category != filter.Category {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeResourceRepo) Update(_ context.Context, resource *entities.Resource) error {
	for i, res := range r.resources {
		if res.ID == resource.ID {
			r.resources[i] = resource
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("resource %s not found", resource.ID))
}

func (r *fakeResourceRepo) UpdateScrapeData(_ context.Context, id string, update repositories.ScrapeUpdate) error {
	for _, res := range r.resources {
		if res.ID != id {
			continue
		}
		if update.Rating != "" {
			res.Rating = update.Rating
			res.ReviewsCount = update.ReviewsCount
		}
		if len(update.Reviews) > 0 {
			res.Reviews = update.Reviews
		}
		if len(update.Photos) > 0 {
			res.Photos = update.Photos
		}
		res.LastUpdated = time.Now()
		return nil
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("resource %s not found", id))
}

func (r *fakeResourceRepo) SearchText(_ context.Context, query string) ([]*entities.Resource, error) {
	q := strings.ToLower(query)
	var out []*entities.Resource
	for _, res := range r.resources {
		if q == "" ||
			strings.Contains(strings.ToLower(res.Name), q) ||
			strings.Contains(strings.ToLower(res.Description), q) {
			out = append(out, res)
		}
	}
	return out, nil
}

// fakeScraper returns a fixed set of raw items per location.
type fakeScraper struct {
	items map[string][]json.RawMessage
	err   error
}

func (s *fakeScraper) ScrapePlaces(_ context.Context, location string) ([]json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items[location], nil
}

func (s *fakeScraper) Configured() bool { return true }
