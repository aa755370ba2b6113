package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/internal/adapters/database"
	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/observability"
	"github.com/stagesen/senior-living-colorado-sub000/pkg/config"
)

// Prints the duplicate report for facilities and resources as JSON. Nothing
// is deleted; removal is a manual follow-up against the reported IDs.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("dedupe", cfg.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	facilityRepo := database.NewFacilityAdapter(pgClient)
	resourceRepo := database.NewResourceAdapter(pgClient)
	dedupService := services.NewDedupService(facilityRepo, resourceRepo)

	ctx := context.Background()

	facilitySets, err := dedupService.FacilityReport(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build facility duplicate report")
	}

	resourceSets, err := dedupService.ResourceReport(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build resource duplicate report")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"facility_duplicate_sets": facilitySets,
		"resource_duplicate_sets": resourceSets,
		"count":                   len(facilitySets) + len(resourceSets),
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode report")
	}
}
