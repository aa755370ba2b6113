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

// CachedResourceAdapter wraps a ResourceRepository with read-through caching
type CachedResourceAdapter struct {
	adapter repositories.ResourceRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedResourceAdapter creates a new cached resource adapter
func NewCachedResourceAdapter(adapter repositories.ResourceRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ResourceRepository {
	return &CachedResourceAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

func resourceCacheKey(id string) string {
	return fmt.Sprintf("resource:%s", id)
}

func resourcesListCacheKey(filter repositories.ResourceFilter) string {
	return fmt.Sprintf("resources:list:%s:%d:%d", filter.Category, filter.Limit, filter.Offset)
}

func resourcesSearchCacheKey(query string) string {
	return fmt.Sprintf("resources:search:%s", query)
}

// GetByID retrieves a resource by ID with caching
func (a *CachedResourceAdapter) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	cacheKey := resourceCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var resource entities.Resource
		if err := json.Unmarshal(cached, &resource); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "resource")
			return &resource, nil
		}
		log.Warn().Str("id", id).Msg("failed to unmarshal cached resource")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "resource")

	resource, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(resource); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilityByIDTTL); err != nil {
				log.Warn().Err(err).Str("id", id).Msg("failed to cache resource")
			}
		}
	}()

	return resource, nil
}

// GetByExternalID bypasses the cache; it only serves the ingestion path.
func (a *CachedResourceAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.Resource, error) {
	return a.adapter.GetByExternalID(ctx, externalID)
}

// List retrieves resources with caching
func (a *CachedResourceAdapter) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	cacheKey := resourcesListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var resources []*entities.Resource
		if err := json.Unmarshal(cached, &resources); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "resource_list")
			return resources, nil
		}
		log.Warn().Msg("failed to unmarshal cached resources list")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "resource_list")

	resources, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(resources); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilitiesListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache resources list")
			}
		}
	}()

	return resources, nil
}

// SearchText retrieves matching resources with caching
func (a *CachedResourceAdapter) SearchText(ctx context.Context, query string) ([]*entities.Resource, error) {
	cacheKey := resourcesSearchCacheKey(query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var resources []*entities.Resource
		if err := json.Unmarshal(cached, &resources); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "resource_search")
			return resources, nil
		}
		log.Warn().Msg("failed to unmarshal cached search results")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "resource_search")

	resources, err := a.adapter.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(resources); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, searchResultsTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache search results")
			}
		}
	}()

	return resources, nil
}

// Create creates a resource and invalidates list caches
func (a *CachedResourceAdapter) Create(ctx context.Context, resource *entities.Resource) error {
	if err := a.adapter.Create(ctx, resource); err != nil {
		return err
	}

	go a.invalidateLists()
	return nil
}

// Update updates a resource and invalidates its caches
func (a *CachedResourceAdapter) Update(ctx context.Context, resource *entities.Resource) error {
	if err := a.adapter.Update(ctx, resource); err != nil {
		return err
	}

	go a.invalidateEntity(resource.ID)
	return nil
}

// UpdateScrapeData applies an automated refresh and invalidates caches
func (a *CachedResourceAdapter) UpdateScrapeData(ctx context.Context, id string, update repositories.ScrapeUpdate) error {
	if err := a.adapter.UpdateScrapeData(ctx, id, update); err != nil {
		return err
	}

	go a.invalidateEntity(id)
	return nil
}

func (a *CachedResourceAdapter) invalidateEntity(id string) {
	bgCtx := context.Background()
	if err := a.cache.Delete(bgCtx, resourceCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("failed to invalidate resource cache")
	}
	a.invalidateLists()
}

func (a *CachedResourceAdapter) invalidateLists() {
	bgCtx := context.Background()
	if err := a.cache.DeletePattern(bgCtx, "resources:list:*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate resources list cache")
	}
	if err := a.cache.DeletePattern(bgCtx, "resources:search:*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate resources search cache")
	}
}
