package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
)

// ResourceService is the application surface the resource handler needs.
type ResourceService interface {
	Create(ctx context.Context, resource *entities.Resource) error
	GetByID(ctx context.Context, id string) (*entities.Resource, error)
	List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error)
	UpdatePartial(ctx context.Context, id string, patch *services.ResourcePatch) (*entities.Resource, error)
}

// ResourceSearcher runs the search pipeline for resources.
type ResourceSearcher interface {
	SearchResources(ctx context.Context, query string, filters services.SearchFilters, sortBy string, limit, offset int) ([]*entities.Resource, error)
}

// ResourceHandler handles resource HTTP requests.
type ResourceHandler struct {
	service  ResourceService
	searcher ResourceSearcher
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(service ResourceService, searcher ResourceSearcher) *ResourceHandler {
	return &ResourceHandler{
		service:  service,
		searcher: searcher,
	}
}

// ListResources handles GET /resources
func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	filter := repositories.ResourceFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	resources, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"count":     len(resources),
	})
}

// GetResource handles GET /resources/{id}
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("id")
	if resourceID == "" {
		respondWithError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	resource, err := h.service.GetByID(r.Context(), resourceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resource)
}

// ListResourcesByCategory handles GET /resources/category/{category}
func (h *ResourceHandler) ListResourcesByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "resource category is required")
		return
	}

	limit, offset := parsePagination(r)
	resources, err := h.service.List(r.Context(), repositories.ResourceFilter{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"count":     len(resources),
	})
}

// SearchResources handles GET /resources/search/{query}
func (h *ResourceHandler) SearchResources(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	limit, offset := parsePagination(r)

	resources, err := h.searcher.SearchResources(r.Context(), query, searchFiltersFromQuery(r), r.URL.Query().Get("sort"), limit, offset)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"count":     len(resources),
	})
}

// CreateResource handles POST /resources
func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var resource entities.Resource
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &resource); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resource)
}

// UpdateResource handles PATCH /resources/{id}
func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("id")
	if resourceID == "" {
		respondWithError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	var patch services.ResourcePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := h.service.UpdatePartial(r.Context(), resourceID, &patch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resource)
}
