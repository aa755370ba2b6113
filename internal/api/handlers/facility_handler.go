package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
)

const defaultListLimit = 30

// FacilityService is the application surface the facility handler needs.
type FacilityService interface {
	Create(ctx context.Context, facility *entities.Facility) error
	GetByID(ctx context.Context, id string) (*entities.Facility, error)
	List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error)
	UpdatePartial(ctx context.Context, id string, patch *services.FacilityPatch) (*entities.Facility, error)
}

// FacilitySearcher runs the search pipeline for facilities.
type FacilitySearcher interface {
	SearchFacilities(ctx context.Context, query string, filters services.SearchFilters, sortBy string, limit, offset int) ([]*entities.Facility, error)
}

// FacilityHandler handles facility HTTP requests.
type FacilityHandler struct {
	service  FacilityService
	searcher FacilitySearcher
}

// NewFacilityHandler creates a new facility handler.
func NewFacilityHandler(service FacilityService, searcher FacilitySearcher) *FacilityHandler {
	return &FacilityHandler{
		service:  service,
		searcher: searcher,
	}
}

// ListFacilities handles GET /facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	filter := repositories.FacilityFilter{
		FacilityType: r.URL.Query().Get("type"),
		Limit:        limit,
		Offset:       offset,
	}

	facilities, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.service.GetByID(r.Context(), facilityID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, facility)
}

// ListFacilitiesByType handles GET /facilities/type/{type}
func (h *FacilityHandler) ListFacilitiesByType(w http.ResponseWriter, r *http.Request) {
	facilityType := r.PathValue("type")
	if facilityType == "" {
		respondWithError(w, http.StatusBadRequest, "facility type is required")
		return
	}

	limit, offset := parsePagination(r)
	facilities, err := h.service.List(r.Context(), repositories.FacilityFilter{
		FacilityType: facilityType,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// SearchFacilities handles GET /facilities/search/{query}
func (h *FacilityHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	limit, offset := parsePagination(r)

	facilities, err := h.searcher.SearchFacilities(r.Context(), query, searchFiltersFromQuery(r), r.URL.Query().Get("sort"), limit, offset)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// CreateFacility handles POST /facilities
func (h *FacilityHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	var facility entities.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &facility); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, facility)
}

// UpdateFacility handles PATCH /facilities/{id}
func (h *FacilityHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	var patch services.FacilityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	facility, err := h.service.UpdatePartial(r.Context(), facilityID, &patch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, facility)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func searchFiltersFromQuery(r *http.Request) services.SearchFilters {
	q := r.URL.Query()
	return services.SearchFilters{
		Location: q.Get("location"),
		Category: q.Get("category"),
		Needs:    q["needs"],
	}
}
