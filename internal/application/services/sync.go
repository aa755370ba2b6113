package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/apify"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/observability"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

// SyncService runs the batch ingestion job: scrape each location, transform
// every item, reconcile against the store, and record durable run status.
// Trigger returns as soon as the run record exists; the job itself runs in
// the background.
type SyncService struct {
	scraper      providers.PlacesScraper
	extractor    providers.ContentExtractor
	transform    *TransformService
	dedup        *DedupService
	facilityRepo repositories.FacilityRepository
	resourceRepo repositories.ResourceRepository
	runStore     providers.SyncRunStore
	metrics      *observability.Metrics

	itemDelay  time.Duration
	batchDelay time.Duration

	mu      sync.Mutex
	running bool
}

// NewSyncService creates a new sync service. extractor may be nil when the
// extraction collaborator is not configured; enrichment is then skipped.
func NewSyncService(
	scraper providers.PlacesScraper,
	extractor providers.ContentExtractor,
	transform *TransformService,
	dedup *DedupService,
	facilityRepo repositories.FacilityRepository,
	resourceRepo repositories.ResourceRepository,
	runStore providers.SyncRunStore,
	metrics *observability.Metrics,
	itemDelay, batchDelay time.Duration,
) *SyncService {
	return &SyncService{
		scraper:      scraper,
		extractor:    extractor,
		transform:    transform,
		dedup:        dedup,
		facilityRepo: facilityRepo,
		resourceRepo: resourceRepo,
		runStore:     runStore,
		metrics:      metrics,
		itemDelay:    itemDelay,
		batchDelay:   batchDelay,
	}
}

// Trigger starts a background ingestion run over the given locations and
// returns its status record immediately. Only one run may be active at a
// time; a second trigger while one is running is rejected.
func (s *SyncService) Trigger(ctx context.Context, locations []string) (*entities.SyncRun, error) {
	if !s.scraper.Configured() {
		return nil, apperrors.NewValidationError("scraper API key is not configured")
	}
	if len(locations) == 0 {
		return nil, apperrors.NewValidationError("at least one location is required")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, apperrors.NewConflictError("a sync run is already in progress")
	}
	s.running = true
	s.mu.Unlock()

	run := &entities.SyncRun{
		ID:        uuid.New().String(),
		Status:    entities.SyncStatusRunning,
		Locations: locations,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return nil, fmt.Errorf("saving sync run: %w", err)
	}

	// Detach from the request context so the handler can return while the
	// job keeps going.
	go s.execute(context.WithoutCancel(ctx), run)

	return run, nil
}

// Status returns a run by id, or the most recent run when id is empty.
func (s *SyncService) Status(ctx context.Context, id string) (*entities.SyncRun, error) {
	if id == "" {
		return s.runStore.Latest(ctx)
	}
	return s.runStore.Get(ctx, id)
}

func (s *SyncService) execute(ctx context.Context, run *entities.SyncRun) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Info().
		Str("run_id", run.ID).
		Strs("locations", run.Locations).
		Msg("Sync run started")

	for i, location := range run.Locations {
		if i > 0 {
			time.Sleep(s.batchDelay)
		}
		s.syncLocation(ctx, run, location)

		if err := s.runStore.Save(ctx, run); err != nil {
			log.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to checkpoint sync run")
		}
	}

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = entities.SyncStatusCompleted
	if run.Counts.Processed == 0 && run.Counts.Errors > 0 {
		run.Status = entities.SyncStatusFailed
		run.Error = "every location failed to scrape"
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to save final sync run state")
	}

	log.Info().
		Str("run_id", run.ID).
		Str("status", run.Status).
		Int("processed", run.Counts.Processed).
		Int("facilities_created", run.Counts.FacilitiesCreated).
		Int("facilities_updated", run.Counts.FacilitiesUpdated).
		Int("resources_created", run.Counts.ResourcesCreated).
		Int("resources_updated", run.Counts.ResourcesUpdated).
		Int("skipped", run.Counts.Skipped).
		Int("errors", run.Counts.Errors).
		Msg("Sync run finished")
}

func (s *SyncService) syncLocation(ctx context.Context, run *entities.SyncRun, location string) {
	items, err := s.scraper.ScrapePlaces(ctx, location)
	if err != nil {
		run.Counts.Errors++
		log.Error().Err(err).Str("location", location).Msg("Scrape failed")
		return
	}

	log.Info().Str("location", location).Int("items", len(items)).Msg("Scrape returned")

	for i, raw := range items {
		if i > 0 {
			time.Sleep(s.itemDelay)
		}

		item, err := apify.ParseItem(raw)
		if err != nil {
			run.Counts.Skipped++
			observability.RecordIngestSkipped(ctx, s.metrics, "malformed")
			if !errors.Is(err, apify.ErrMalformedItem) {
				log.Warn().Err(err).Str("location", location).Msg("Unreadable scrape item")
			}
			continue
		}

		if err := s.processItem(ctx, run, item); err != nil {
			run.Counts.Errors++
			log.Error().Err(err).Str("name", item.Title).Msg("Failed to ingest scrape item")
			continue
		}
		run.Counts.Processed++
	}
}

func (s *SyncService) processItem(ctx context.Context, run *entities.SyncRun, item *apify.PlaceItem) error {
	if s.transform.IsFacility(item) {
		return s.processFacility(ctx, run, item)
	}
	return s.processResource(ctx, run, item)
}

func (s *SyncService) processFacility(ctx context.Context, run *entities.SyncRun, item *apify.PlaceItem) error {
	draft := s.transform.FacilityFromItem(item)

	existing, err := s.dedup.MatchFacility(ctx, draft)
	if err != nil {
		return err
	}

	if existing != nil {
		rating, count, reviews, photos := s.transform.ScrapeUpdateFromItem(item)
		update := repositories.ScrapeUpdate{
			Rating:       rating,
			ReviewsCount: count,
			Reviews:      reviews,
			Photos:       photos,
		}
		if err := s.facilityRepo.UpdateScrapeData(ctx, existing.ID, update); err != nil {
			return err
		}
		run.Counts.FacilitiesUpdated++
		observability.RecordIngestItem(ctx, s.metrics, "facility_updated")
		return nil
	}

	draft.ID = uuid.New().String()
	s.enrich(ctx, draft)

	if err := s.facilityRepo.Create(ctx, draft); err != nil {
		return err
	}
	run.Counts.FacilitiesCreated++
	observability.RecordIngestItem(ctx, s.metrics, "facility_created")
	return nil
}

func (s *SyncService) processResource(ctx context.Context, run *entities.SyncRun, item *apify.PlaceItem) error {
	draft := s.transform.ResourceFromItem(item)

	existing, err := s.dedup.MatchResource(ctx, draft)
	if err != nil {
		return err
	}

	if existing != nil {
		rating, count, reviews, photos := s.transform.ScrapeUpdateFromItem(item)
		update := repositories.ScrapeUpdate{
			Rating:       rating,
			ReviewsCount: count,
			Reviews:      reviews,
			Photos:       photos,
		}
		if err := s.resourceRepo.UpdateScrapeData(ctx, existing.ID, update); err != nil {
			return err
		}
		run.Counts.ResourcesUpdated++
		observability.RecordIngestItem(ctx, s.metrics, "resource_updated")
		return nil
	}

	draft.ID = uuid.New().String()

	if err := s.resourceRepo.Create(ctx, draft); err != nil {
		return err
	}
	run.Counts.ResourcesCreated++
	observability.RecordIngestItem(ctx, s.metrics, "resource_created")
	return nil
}

// enrich asks the extraction collaborator for website-derived content. Any
// failure leaves the draft as-is: enrichment is never load-bearing.
func (s *SyncService) enrich(ctx context.Context, draft *entities.Facility) {
	if s.extractor == nil || draft.Website == "" {
		return
	}

	extraction, err := s.extractor.Extract(ctx, draft.Website)
	if err != nil {
		log.Warn().Err(err).Str("website", draft.Website).Msg("Content extraction failed")
		return
	}
	if extraction == nil {
		return
	}

	if extraction.Blurb != "" {
		draft.Description = extraction.Blurb
	}
	if len(extraction.Services) > 0 {
		draft.Services = extraction.Services
		detail := make([]entities.ServicePricing, 0, len(extraction.Services))
		for i, svc := range extraction.Services {
			sp := entities.ServicePricing{Name: svc}
			if i < len(extraction.Pricing) {
				sp.Price = extraction.Pricing[i]
			}
			detail = append(detail, sp)
		}
		draft.ServicesDetail = detail
	}
}
