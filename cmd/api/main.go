package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/internal/adapters/cache"
	"github.com/stagesen/senior-living-colorado-sub000/internal/adapters/database"
	"github.com/stagesen/senior-living-colorado-sub000/internal/adapters/jobs"
	"github.com/stagesen/senior-living-colorado-sub000/internal/api/handlers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/api/middleware"
	"github.com/stagesen/senior-living-colorado-sub000/internal/api/routes"
	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
	db "github.com/stagesen/senior-living-colorado-sub000/internal/database"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/apify"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/extract"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/redis"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/observability"
	"github.com/stagesen/senior-living-colorado-sub000/internal/scheduler"
	"github.com/stagesen/senior-living-colorado-sub000/pkg/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	if err := db.RunMigrations(cfg.Database.DatabaseURL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database migrations applied")

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional: without it the API serves uncached reads and keeps
	// run status in memory.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis cache initialized")
	}

	var facilityRepo repositories.FacilityRepository = database.NewFacilityAdapter(pgClient)
	var resourceRepo repositories.ResourceRepository = database.NewResourceAdapter(pgClient)
	if cacheProvider != nil {
		facilityRepo = database.NewCachedFacilityAdapter(facilityRepo, cacheProvider, metrics)
		resourceRepo = database.NewCachedResourceAdapter(resourceRepo, cacheProvider, metrics)
	}
	favoriteRepo := database.NewFavoriteAdapter(pgClient)

	var runStore providers.SyncRunStore
	if cacheProvider != nil {
		runStore = jobs.NewRedisSyncRunStore(cacheProvider)
	} else {
		runStore = jobs.NewMemorySyncRunStore()
	}

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	rules, err := services.LoadRules(configDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", configDir).Msg("Failed to load rule tables")
	}

	apifyClient := apify.NewClient(&cfg.Apify)

	var extractor providers.ContentExtractor
	if cfg.Extract.APIKey != "" {
		extractClient, err := extract.NewClient(&cfg.Extract)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize extraction client, enrichment disabled")
		} else {
			extractor = extractClient
		}
	} else {
		log.Info().Msg("EXTRACT_API_KEY not set, website enrichment disabled")
	}

	transformService := services.NewTransformService(rules)
	dedupService := services.NewDedupService(facilityRepo, resourceRepo)
	searchService := services.NewSearchService(facilityRepo, resourceRepo, rules)
	facilityService := services.NewFacilityService(facilityRepo)
	resourceService := services.NewResourceService(resourceRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	syncService := services.NewSyncService(
		apifyClient, extractor, transformService, dedupService,
		facilityRepo, resourceRepo, runStore, metrics,
		cfg.Sync.ItemDelay, cfg.Sync.BatchDelay,
	)

	facilityHandler := handlers.NewFacilityHandler(facilityService, searchService)
	resourceHandler := handlers.NewResourceHandler(resourceService, searchService)
	searchHandler := handlers.NewSearchHandler(searchService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	syncHandler := handlers.NewSyncHandler(syncService, apifyClient, cfg.Sync.Locations)

	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	router := routes.NewRouter(
		facilityHandler, resourceHandler, searchHandler, favoriteHandler, syncHandler,
		rateLimiter, cfg.Server.AllowedOrigins, metrics,
	)
	handler := router.SetupRoutes()

	sched := scheduler.New(cfg.Sync.Schedule, cfg.Sync.Locations, syncService)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
