package handlers

import (
	"context"
	"net/http"

	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
)

// UnifiedSearcher runs the combined facility+resource search.
type UnifiedSearcher interface {
	UnifiedSearch(ctx context.Context, query string, filters services.SearchFilters, sortBy string, limit, offset int) (*services.UnifiedResult, error)
}

// SearchHandler handles the unified search endpoint.
type SearchHandler struct {
	searcher UnifiedSearcher
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searcher UnifiedSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	result, err := h.searcher.UnifiedSearch(
		r.Context(),
		r.URL.Query().Get("q"),
		searchFiltersFromQuery(r),
		r.URL.Query().Get("sort"),
		limit, offset,
	)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
