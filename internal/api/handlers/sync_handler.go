package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// SyncService is the application surface the sync handler needs.
type SyncService interface {
	Trigger(ctx context.Context, locations []string) (*entities.SyncRun, error)
	Status(ctx context.Context, id string) (*entities.SyncRun, error)
}

// APIKeyChecker verifies the scraper credential against the provider.
type APIKeyChecker interface {
	CheckAPIKey(ctx context.Context) error
}

// SyncHandler handles ingestion job HTTP requests.
type SyncHandler struct {
	service          SyncService
	keyChecker       APIKeyChecker
	defaultLocations []string
}

// NewSyncHandler creates a new sync handler. defaultLocations is used when
// the trigger body names none.
func NewSyncHandler(service SyncService, keyChecker APIKeyChecker, defaultLocations []string) *SyncHandler {
	return &SyncHandler{
		service:          service,
		keyChecker:       keyChecker,
		defaultLocations: defaultLocations,
	}
}

// TriggerSync handles POST /apify/sync. It responds as soon as the run is
// recorded; the job continues in the background.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Locations []string `json:"locations"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	locations := body.Locations
	if len(locations) == 0 {
		locations = h.defaultLocations
	}

	run, err := h.service.Trigger(r.Context(), locations)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "sync started",
		"run_id":  run.ID,
	})
}

// GetSyncStatus handles GET /apify/sync/status. Without a run_id it returns
// the most recent run.
func (h *SyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Status(r.Context(), r.URL.Query().Get("run_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, run)
}

// CheckAPIKey handles GET /apify/check-api-key.
func (h *SyncHandler) CheckAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.keyChecker.CheckAPIKey(r.Context()); err != nil {
		respondWithError(w, http.StatusNotFound, "scraper API key is missing or invalid")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "API key is valid"})
}
