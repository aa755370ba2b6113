package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stagesen/senior-living-colorado-sub000/internal/adapters/jobs"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
)

type staticExtractor struct {
	extraction *providers.Extraction
}

func (e *staticExtractor) Extract(_ context.Context, _ string) (*providers.Extraction, error) {
	return e.extraction, nil
}

func newTestSync(t *testing.T, scraper providers.PlacesScraper, extractor providers.ContentExtractor,
	facilityRepo *fakeFacilityRepo, resourceRepo *fakeResourceRepo) (*SyncService, providers.SyncRunStore) {
	t.Helper()
	store := jobs.NewMemorySyncRunStore()
	svc := NewSyncService(
		scraper, extractor,
		NewTransformService(newTestRules(t)),
		NewDedupService(facilityRepo, resourceRepo),
		facilityRepo, resourceRepo, store, nil,
		0, 0, // no inter-item delays in tests
	)
	return svc, store
}

func waitForRun(t *testing.T, store providers.SyncRunStore, id string) *entities.SyncRun {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := store.Get(context.Background(), id)
		if err == nil && run.Status != entities.SyncStatusRunning {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sync run did not finish in time")
	return nil
}

func rawItems(t *testing.T, items ...map[string]interface{}) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("failed to marshal item: %v", err)
		}
		out = append(out, data)
	}
	return out
}

func TestSyncTrigger_CreatesFacilityWithSynthesizedDescription(t *testing.T) {
	scraper := &fakeScraper{items: map[string][]json.RawMessage{
		"Golden, CO": rawItems(t, map[string]interface{}{
			"title":        "Golden Pond",
			"categoryName": "Senior living community",
			"address":      "1270 Golden Cir",
			"city":         "Golden",
			"state":        "CO",
			"placeId":      "place-gp",
		}),
	}}
	facilityRepo := &fakeFacilityRepo{}
	svc, store := newTestSync(t, scraper, nil, facilityRepo, &fakeResourceRepo{})

	run, err := svc.Trigger(context.Background(), []string{"Golden, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	if run.Status != entities.SyncStatusRunning {
		t.Errorf("expected running status at trigger time, got %q", run.Status)
	}

	final := waitForRun(t, store, run.ID)
	if final.Status != entities.SyncStatusCompleted {
		t.Fatalf("expected completed, got %q (error %q)", final.Status, final.Error)
	}
	if final.Counts.FacilitiesCreated != 1 {
		t.Errorf("expected 1 facility created, got %d", final.Counts.FacilitiesCreated)
	}

	if len(facilityRepo.facilities) != 1 {
		t.Fatalf("expected 1 stored facility, got %d", len(facilityRepo.facilities))
	}
	f := facilityRepo.facilities[0]
	if f.ID == "" {
		t.Error("expected an assigned id")
	}
	if f.Description != "Golden Pond is a senior living in Golden." {
		t.Errorf("unexpected description %q", f.Description)
	}
}

func TestSyncTrigger_ReingestUpdatesOnlyScrapeFields(t *testing.T) {
	existing := &entities.Facility{
		ID: "f1", Name: "Golden Pond", Address: "1270 Golden Cir", City: "Golden",
		State: "CO", Description: "Hand-written description.", ExternalID: "place-gp",
		Rating: "4.5", ReviewsCount: 80,
	}
	scraper := &fakeScraper{items: map[string][]json.RawMessage{
		"Golden, CO": rawItems(t, map[string]interface{}{
			"title":        "Golden Pond Senior Living", // renamed at the source
			"categoryName": "Senior living community",
			"address":      "1270 Golden Cir",
			"city":         "Golden",
			"state":        "CO",
			"placeId":      "place-gp",
			"totalScore":   4.8,
			"reviewsCount": 120,
		}),
	}}
	facilityRepo := &fakeFacilityRepo{facilities: []*entities.Facility{existing}}
	svc, store := newTestSync(t, scraper, nil, facilityRepo, &fakeResourceRepo{})

	run, err := svc.Trigger(context.Background(), []string{"Golden, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	final := waitForRun(t, store, run.ID)

	if final.Counts.FacilitiesUpdated != 1 {
		t.Errorf("expected 1 facility updated, got %d", final.Counts.FacilitiesUpdated)
	}
	if final.Counts.FacilitiesCreated != 0 {
		t.Errorf("expected no creations, got %d", final.Counts.FacilitiesCreated)
	}

	f := facilityRepo.facilities[0]
	if f.Rating != "4.8" || f.ReviewsCount != 120 {
		t.Errorf("expected refreshed rating 4.8/120, got %q/%d", f.Rating, f.ReviewsCount)
	}
	if f.Name != "Golden Pond" {
		t.Errorf("curated name must survive a re-scrape, got %q", f.Name)
	}
	if f.Description != "Hand-written description." {
		t.Errorf("curated description must survive a re-scrape, got %q", f.Description)
	}
}

func TestSyncTrigger_MalformedItemsSkipped(t *testing.T) {
	scraper := &fakeScraper{items: map[string][]json.RawMessage{
		"Denver, CO": append(
			rawItems(t, map[string]interface{}{"categoryName": "Senior living"}), // no name
			json.RawMessage(`{not json`),
		),
	}}
	facilityRepo := &fakeFacilityRepo{}
	svc, store := newTestSync(t, scraper, nil, facilityRepo, &fakeResourceRepo{})

	run, err := svc.Trigger(context.Background(), []string{"Denver, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	final := waitForRun(t, store, run.ID)

	if final.Counts.Skipped != 2 {
		t.Errorf("expected 2 skipped items, got %d", final.Counts.Skipped)
	}
	if final.Status != entities.SyncStatusCompleted {
		t.Errorf("malformed items must not fail the run, got %q", final.Status)
	}
	if len(facilityRepo.facilities) != 0 {
		t.Errorf("expected no facilities stored, got %d", len(facilityRepo.facilities))
	}
}

func TestSyncTrigger_ResourceRecordsLandInResourceDirectory(t *testing.T) {
	scraper := &fakeScraper{items: map[string][]json.RawMessage{
		"Denver, CO": rawItems(t, map[string]interface{}{
			"title":        "Elder Law Group",
			"categoryName": "Estate attorney",
			"phone":        "303-555-0100",
		}),
	}}
	facilityRepo := &fakeFacilityRepo{}
	resourceRepo := &fakeResourceRepo{}
	svc, store := newTestSync(t, scraper, nil, facilityRepo, resourceRepo)

	run, err := svc.Trigger(context.Background(), []string{"Denver, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	final := waitForRun(t, store, run.ID)

	if final.Counts.ResourcesCreated != 1 {
		t.Errorf("expected 1 resource created, got %d", final.Counts.ResourcesCreated)
	}
	if len(facilityRepo.facilities) != 0 {
		t.Error("attorney listing must not be stored as a facility")
	}
	if len(resourceRepo.resources) != 1 || resourceRepo.resources[0].Category != "financial_legal" {
		t.Fatalf("expected one financial_legal resource, got %+v", resourceRepo.resources)
	}
}

func TestSyncTrigger_ExtractionEnrichesNewFacility(t *testing.T) {
	scraper := &fakeScraper{items: map[string][]json.RawMessage{
		"Golden, CO": rawItems(t, map[string]interface{}{
			"title":        "Golden Pond",
			"categoryName": "Senior living community",
			"address":      "1270 Golden Cir",
			"city":         "Golden",
			"state":        "CO",
			"website":      "https://goldenpond.example.com",
		}),
	}}
	extractor := &staticExtractor{extraction: &providers.Extraction{
		Blurb:    "Family-owned community on five acres.",
		Services: []string{"Assisted Living", "Memory Care"},
		Pricing:  []string{"$4,500/mo"},
	}}
	facilityRepo := &fakeFacilityRepo{}
	svc, store := newTestSync(t, scraper, extractor, facilityRepo, &fakeResourceRepo{})

	run, err := svc.Trigger(context.Background(), []string{"Golden, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	waitForRun(t, store, run.ID)

	f := facilityRepo.facilities[0]
	if f.Description != "Family-owned community on five acres." {
		t.Errorf("expected extracted blurb as description, got %q", f.Description)
	}
	if len(f.Services) != 2 {
		t.Fatalf("expected 2 services, got %v", f.Services)
	}
	if len(f.ServicesDetail) != 2 || f.ServicesDetail[0].Price != "$4,500/mo" {
		t.Errorf("unexpected services detail %+v", f.ServicesDetail)
	}
}

func TestSyncTrigger_RejectsEmptyLocations(t *testing.T) {
	svc, _ := newTestSync(t, &fakeScraper{}, nil, &fakeFacilityRepo{}, &fakeResourceRepo{})
	if _, err := svc.Trigger(context.Background(), nil); err == nil {
		t.Fatal("expected validation error for empty locations")
	}
}

func TestSyncStatus_EmptyIDReturnsLatest(t *testing.T) {
	scraper := &fakeScraper{items: map[string][]json.RawMessage{}}
	svc, store := newTestSync(t, scraper, nil, &fakeFacilityRepo{}, &fakeResourceRepo{})

	run, err := svc.Trigger(context.Background(), []string{"Nowhere, CO"})
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	waitForRun(t, store, run.ID)

	latest, err := svc.Status(context.Background(), "")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("expected latest run %s, got %s", run.ID, latest.ID)
	}
}
