package services

import (
	"context"
	"testing"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

func newTestSearch(t *testing.T, facilities []*entities.Facility, resources []*entities.Resource) *SearchService {
	t.Helper()
	return NewSearchService(
		&fakeFacilityRepo{facilities: facilities},
		&fakeResourceRepo{resources: resources},
		newTestRules(t),
	)
}

// --- Query normalization ---

func TestNormalizeQuery_LowercaseAndTrim(t *testing.T) {
	svc := newTestSearch(t, nil, nil)
	if got := svc.NormalizeQuery("  Memory CARE  "); got != "memory care" {
		t.Errorf("expected 'memory care', got %q", got)
	}
}

func TestNormalizeQuery_StripsPunctuationAndStopWords(t *testing.T) {
	svc := newTestSearch(t, nil, nil)
	if got := svc.NormalizeQuery("homes near me, with gardens!"); got != "homes gardens" {
		t.Errorf("expected 'homes gardens', got %q", got)
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	svc := newTestSearch(t, nil, nil)
	once := svc.NormalizeQuery("Assisted-Living in DENVER!")
	twice := svc.NormalizeQuery(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeQuery_AllStopWordsIsEmpty(t *testing.T) {
	svc := newTestSearch(t, nil, nil)
	if got := svc.NormalizeQuery("the in of"); got != "" {
		t.Errorf("expected empty query, got %q", got)
	}
}

// --- Facility search ---

func testFacilities() []*entities.Facility {
	return []*entities.Facility{
		{ID: "f1", Name: "Golden Pond", FacilityType: "senior_living", City: "Golden", Rating: "4.8",
			Amenities: []string{"Garden", "Memory care unit"}},
		{ID: "f2", Name: "Aspen Ridge", FacilityType: "memory_care", City: "Loveland", Rating: "4.2",
			Amenities: []string{"Pet friendly"}},
		{ID: "f3", Name: "Boulder Creek Living", FacilityType: "assisted_living", City: "Louisville", Rating: "",
			Amenities: []string{"Transportation"}},
	}
}

func TestSearchFacilities_EmptyQueryMatchesAll(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 facilities, got %d", len(got))
	}
}

func TestSearchFacilities_LocationFilterDenverMetro(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{Location: "denver_metro"}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("expected only the Golden facility, got %v", ids(got))
	}
}

func TestSearchFacilities_LocationFilterExcludesLoveland(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{Location: "denver_metro"}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range got {
		if f.City == "Loveland" {
			t.Error("denver_metro must not match Loveland")
		}
	}
}

func TestSearchFacilities_CategoryMatchesTypeOrAmenities(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{Category: "memory_care"}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// f2 via facility type, f1 via the "Memory care unit" amenity.
	if len(got) != 2 {
		t.Fatalf("expected 2 facilities, got %v", ids(got))
	}
}

func TestSearchFacilities_NeedsFilterAgainstAmenities(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{Needs: []string{"pet"}}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "f2" {
		t.Fatalf("expected only the pet-friendly facility, got %v", ids(got))
	}
}

func TestSearchFacilities_FiltersOnlyNarrow(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	unfiltered, _ := svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortRelevance, 0, 0)
	filtered, _ := svc.SearchFacilities(context.Background(), "",
		SearchFilters{Location: "denver_metro", Category: "memory_care"}, SortRelevance, 0, 0)
	if len(filtered) > len(unfiltered) {
		t.Error("adding filters must never grow the result set")
	}
}

func TestSearchFacilities_SortByRatingUnparseableLast(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortRating, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID != "f1" || got[len(got)-1].ID != "f3" {
		t.Errorf("expected rating order f1..f3-last, got %v", ids(got))
	}
}

func TestSearchFacilities_SortByName(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortName, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Name != "Aspen Ridge" {
		t.Errorf("expected Aspen Ridge first, got %q", got[0].Name)
	}
}

func TestSearchFacilities_Pagination(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), nil)
	got, err := svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortName, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 facility on the last page, got %d", len(got))
	}

	got, err = svc.SearchFacilities(context.Background(), "", SearchFilters{}, SortName, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(got))
	}
}

// --- Resource search ---

func TestSearchResources_CategoryFilter(t *testing.T) {
	resources := []*entities.Resource{
		{ID: "r1", Name: "Senior Rides", Category: "transportation", Description: "Door to door rides"},
		{ID: "r2", Name: "Elder Law Group", Category: "financial_legal", Description: "Estate planning"},
	}
	svc := newTestSearch(t, nil, resources)

	got, err := svc.SearchResources(context.Background(), "", SearchFilters{Category: "transportation"}, SortRelevance, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("expected only the rides resource, got %d results", len(got))
	}
}

// --- Unified search ---

func TestUnifiedSearch_SplitsLimit(t *testing.T) {
	svc := newTestSearch(t, testFacilities(), []*entities.Resource{
		{ID: "r1", Name: "Senior Rides", Category: "transportation"},
		{ID: "r2", Name: "Meals Program", Category: "health_wellness"},
	})

	result, err := svc.UnifiedSearch(context.Background(), "", SearchFilters{}, SortRelevance, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Limit 3: facilities get the ceiling half (2), resources the floor (1).
	if len(result.Facilities) != 2 {
		t.Errorf("expected 2 facilities, got %d", len(result.Facilities))
	}
	if len(result.Resources) != 1 {
		t.Errorf("expected 1 resource, got %d", len(result.Resources))
	}
}

func ids(facilities []*entities.Facility) []string {
	out := make([]string, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, f.ID)
	}
	return out
}
