package routes

import (
	"net/http"

	"github.com/stagesen/senior-living-colorado-sub000/internal/api/handlers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/api/middleware"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/observability"
)

// Router wires handlers onto the HTTP surface.
type Router struct {
	mux *http.ServeMux

	facilityHandler *handlers.FacilityHandler
	resourceHandler *handlers.ResourceHandler
	searchHandler   *handlers.SearchHandler
	favoriteHandler *handlers.FavoriteHandler
	syncHandler     *handlers.SyncHandler

	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router.
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	resourceHandler *handlers.ResourceHandler,
	searchHandler *handlers.SearchHandler,
	favoriteHandler *handlers.FavoriteHandler,
	syncHandler *handlers.SyncHandler,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		facilityHandler: facilityHandler,
		resourceHandler: resourceHandler,
		searchHandler:   searchHandler,
		favoriteHandler: favoriteHandler,
		syncHandler:     syncHandler,
		rateLimiter:     rateLimiter,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes and the middleware chain.
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			return
		}
	})

	// Facility endpoints. Static segments before {id} so search and
	// type listings are not captured as IDs.
	r.mux.HandleFunc("GET /facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /facilities/type/{type}", r.facilityHandler.ListFacilitiesByType)
	r.mux.HandleFunc("GET /facilities/search/{query}", r.facilityHandler.SearchFacilities)
	r.mux.HandleFunc("GET /facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("POST /facilities", r.facilityHandler.CreateFacility)
	r.mux.HandleFunc("PATCH /facilities/{id}", r.facilityHandler.UpdateFacility)

	// Resource endpoints
	r.mux.HandleFunc("GET /resources", r.resourceHandler.ListResources)
	r.mux.HandleFunc("GET /resources/category/{category}", r.resourceHandler.ListResourcesByCategory)
	r.mux.HandleFunc("GET /resources/search/{query}", r.resourceHandler.SearchResources)
	r.mux.HandleFunc("GET /resources/{id}", r.resourceHandler.GetResource)
	r.mux.HandleFunc("POST /resources", r.resourceHandler.CreateResource)
	r.mux.HandleFunc("PATCH /resources/{id}", r.resourceHandler.UpdateResource)

	// Unified search
	r.mux.HandleFunc("GET /search", r.searchHandler.Search)

	// Favorites
	r.mux.HandleFunc("GET /favorites", r.favoriteHandler.ListFavorites)
	r.mux.HandleFunc("POST /favorites", r.favoriteHandler.AddFavorite)
	r.mux.HandleFunc("DELETE /favorites/{type}/{id}", r.favoriteHandler.RemoveFavorite)

	// Ingestion job
	r.mux.HandleFunc("POST /apify/sync", r.syncHandler.TriggerSync)
	r.mux.HandleFunc("GET /apify/sync/status", r.syncHandler.GetSyncStatus)
	r.mux.HandleFunc("GET /apify/check-api-key", r.syncHandler.CheckAPIKey)

	// Middleware applies in reverse order; CORS wraps everything so headers
	// land on rate-limited responses too.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware()(handler)
	}
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
