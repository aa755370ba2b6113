package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/observability"
)

// CachedFacilityAdapter wraps a FacilityRepository with read-through caching
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	facilityByIDTTL   = 300 // 5 minutes for single entities
	facilitiesListTTL = 180 // 3 minutes for lists
	searchResultsTTL  = 120 // 2 minutes for search results
)

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

func facilitiesListCacheKey(filter repositories.FacilityFilter) string {
	return fmt.Sprintf("facilities:list:%s:%d:%d", filter.FacilityType, filter.Limit, filter.Offset)
}

func facilitiesSearchCacheKey(query string) string {
	return fmt.Sprintf("facilities:search:%s", query)
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	cacheKey := facilityCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "facility")
			return &facility, nil
		}
		log.Warn().Str("id", id).Msg("failed to unmarshal cached facility")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "facility")

	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facility); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilityByIDTTL); err != nil {
				log.Warn().Err(err).Str("id", id).Msg("failed to cache facility")
			}
		}
	}()

	return facility, nil
}

// GetByExternalID is not cached: it only serves the ingestion path, where a
// stale hit would reintroduce just-updated scrape data.
func (a *CachedFacilityAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.Facility, error) {
	return a.adapter.GetByExternalID(ctx, externalID)
}

// List retrieves facilities with caching
func (a *CachedFacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	cacheKey := facilitiesListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "facility_list")
			return facilities, nil
		}
		log.Warn().Msg("failed to unmarshal cached facilities list")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "facility_list")

	facilities, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilitiesListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache facilities list")
			}
		}
	}()

	return facilities, nil
}

// SearchText retrieves matching facilities with caching
func (a *CachedFacilityAdapter) SearchText(ctx context.Context, query string) ([]*entities.Facility, error) {
	cacheKey := facilitiesSearchCacheKey(query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "facility_search")
			return facilities, nil
		}
		log.Warn().Msg("failed to unmarshal cached search results")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "facility_search")

	facilities, err := a.adapter.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, searchResultsTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache search results")
			}
		}
	}()

	return facilities, nil
}

// Create creates a facility and invalidates list caches
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}

	go a.invalidateLists()
	return nil
}

// Update updates a facility and invalidates its caches
func (a *CachedFacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Update(ctx, facility); err != nil {
		return err
	}

	go a.invalidateEntity(facility.ID)
	return nil
}

// UpdateScrapeData applies an automated refresh and invalidates caches
func (a *CachedFacilityAdapter) UpdateScrapeData(ctx context.Context, id string, update repositories.ScrapeUpdate) error {
	if err := a.adapter.UpdateScrapeData(ctx, id, update); err != nil {
		return err
	}

	go a.invalidateEntity(id)
	return nil
}

func (a *CachedFacilityAdapter) invalidateEntity(id string) {
	bgCtx := context.Background()
	if err := a.cache.Delete(bgCtx, facilityCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("failed to invalidate facility cache")
	}
	a.invalidateLists()
}

func (a *CachedFacilityAdapter) invalidateLists() {
	bgCtx := context.Background()
	if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate facilities list cache")
	}
	if err := a.cache.DeletePattern(bgCtx, "facilities:search:*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate facilities search cache")
	}
}
