package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// FavoriteService is the application surface the favorites handler needs.
type FavoriteService interface {
	Add(ctx context.Context, itemType, itemID string) error
	Remove(ctx context.Context, itemType, itemID string) error
	List(ctx context.Context) ([]*entities.Favorite, error)
}

// FavoriteHandler handles bookmark HTTP requests.
type FavoriteHandler struct {
	service FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(service FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// ListFavorites handles GET /favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite handles POST /favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type   string `json:"type"`
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Add(r.Context(), body.Type, body.ItemID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "favorite added"})
}

// RemoveFavorite handles DELETE /favorites/{type}/{id}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	itemType := r.PathValue("type")
	itemID := r.PathValue("id")

	if err := h.service.Remove(r.Context(), itemType, itemID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}
