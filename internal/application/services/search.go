package services

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
)

// SearchFilters narrow a search result set. Every filter only removes
// records, never adds them back.
type SearchFilters struct {
	Location string
	Category string
	Needs    []string
}

// Sort orders for search results. Relevance keeps the base retrieval order.
const (
	SortRelevance = "relevance"
	SortRating    = "rating"
	SortName      = "name"
)

// UnifiedResult is the combined facility+resource search response.
type UnifiedResult struct {
	Facilities []*entities.Facility `json:"facilities"`
	Resources  []*entities.Resource `json:"resources"`
}

// SearchService is the search and filter engine over both directories.
type SearchService struct {
	facilityRepo repositories.FacilityRepository
	resourceRepo repositories.ResourceRepository
	rules        *Rules
}

// NewSearchService creates a new search service.
func NewSearchService(
	facilityRepo repositories.FacilityRepository,
	resourceRepo repositories.ResourceRepository,
	rules *Rules,
) *SearchService {
	return &SearchService{
		facilityRepo: facilityRepo,
		resourceRepo: resourceRepo,
		rules:        rules,
	}
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// NormalizeQuery cleans a raw query: trim, lowercase, strip punctuation,
// collapse whitespace, drop stop words. An empty result is valid and means
// "match everything". Normalizing twice gives the same answer.
func (s *SearchService) NormalizeQuery(query string) string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(query)), "")
	tokens := strings.Fields(cleaned)

	kept := tokens[:0]
	for _, tok := range tokens {
		if !s.rules.IsStopWord(tok) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// SearchFacilities runs the full pipeline: normalize, retrieve, filter,
// sort, paginate. No matches returns an empty list, not an error.
func (s *SearchService) SearchFacilities(ctx context.Context, query string, filters SearchFilters, sortBy string, limit, offset int) ([]*entities.Facility, error) {
	normalized := s.NormalizeQuery(query)

	facilities, err := s.facilityRepo.SearchText(ctx, normalized)
	if err != nil {
		return nil, err
	}

	facilities = s.filterFacilities(facilities, filters)
	sortFacilities(facilities, sortBy)
	return paginate(facilities, limit, offset), nil
}

// SearchResources is the resource counterpart of SearchFacilities.
func (s *SearchService) SearchResources(ctx context.Context, query string, filters SearchFilters, sortBy string, limit, offset int) ([]*entities.Resource, error) {
	normalized := s.NormalizeQuery(query)

	resources, err := s.resourceRepo.SearchText(ctx, normalized)
	if err != nil {
		return nil, err
	}

	resources = s.filterResources(resources, filters)
	sortResources(resources, sortBy)
	return paginate(resources, limit, offset), nil
}

// UnifiedSearch queries both directories concurrently, splitting the limit
// between them: facilities get the ceiling half, resources the floor half.
func (s *SearchService) UnifiedSearch(ctx context.Context, query string, filters SearchFilters, sortBy string, limit, offset int) (*UnifiedResult, error) {
	facilityLimit := (limit + 1) / 2
	resourceLimit := limit / 2
	if limit <= 0 {
		facilityLimit, resourceLimit = 0, 0
	}

	var (
		wg          sync.WaitGroup
		facilities  []*entities.Facility
		resources   []*entities.Resource
		facilityErr error
		resourceErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		facilities, facilityErr = s.SearchFacilities(ctx, query, filters, sortBy, facilityLimit, offset)
	}()
	go func() {
		defer wg.Done()
		resources, resourceErr = s.SearchResources(ctx, query, filters, sortBy, resourceLimit, offset)
	}()
	wg.Wait()

	if facilityErr != nil {
		return nil, facilityErr
	}
	if resourceErr != nil {
		return nil, resourceErr
	}

	return &UnifiedResult{Facilities: facilities, Resources: resources}, nil
}

func (s *SearchService) filterFacilities(in []*entities.Facility, filters SearchFilters) []*entities.Facility {
	out := in

	if filters.Location != "" {
		cities := s.rules.LocationCities(filters.Location)
		out = keepFacilities(out, func(f *entities.Facility) bool {
			return anySynonymMatches(cities, f.City, f.Address, f.State, f.County, f.ZipCode)
		})
	}

	if filters.Category != "" {
		terms := s.rules.CareTypeTerms(filters.Category)
		out = keepFacilities(out, func(f *entities.Facility) bool {
			haystacks := append([]string{f.FacilityType}, f.Amenities...)
			return anySynonymMatches(terms, haystacks...)
		})
	}

	if len(filters.Needs) > 0 {
		out = keepFacilities(out, func(f *entities.Facility) bool {
			for _, need := range filters.Needs {
				if anySynonymMatches([]string{need}, f.Amenities...) {
					return true
				}
			}
			return false
		})
	}

	return out
}

func (s *SearchService) filterResources(in []*entities.Resource, filters SearchFilters) []*entities.Resource {
	out := in

	if filters.Location != "" {
		cities := s.rules.LocationCities(filters.Location)
		out = keepResources(out, func(r *entities.Resource) bool {
			return anySynonymMatches(cities, r.City, r.Address, r.State, r.ZipCode)
		})
	}

	if filters.Category != "" {
		terms := s.rules.ResourceCategoryTerms(filters.Category)
		out = keepResources(out, func(r *entities.Resource) bool {
			return anySynonymMatches(terms, r.Category, r.Description)
		})
	}

	if len(filters.Needs) > 0 {
		out = keepResources(out, func(r *entities.Resource) bool {
			for _, need := range filters.Needs {
				if anySynonymMatches([]string{need}, r.Description, r.Name, r.Category) {
					return true
				}
			}
			return false
		})
	}

	return out
}

func keepFacilities(in []*entities.Facility, pred func(*entities.Facility) bool) []*entities.Facility {
	out := make([]*entities.Facility, 0, len(in))
	for _, f := range in {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

func keepResources(in []*entities.Resource, pred func(*entities.Resource) bool) []*entities.Resource {
	out := make([]*entities.Resource, 0, len(in))
	for _, r := range in {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// anySynonymMatches reports whether any synonym is a case-insensitive
// substring of any haystack field.
func anySynonymMatches(synonyms []string, haystacks ...string) bool {
	for _, hay := range haystacks {
		if hay == "" {
			continue
		}
		lowered := strings.ToLower(hay)
		for _, syn := range synonyms {
			if syn == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(syn)) {
				return true
			}
		}
	}
	return false
}

func sortFacilities(facilities []*entities.Facility, sortBy string) {
	switch sortBy {
	case SortRating:
		sort.SliceStable(facilities, func(i, j int) bool {
			return parseRating(facilities[i].Rating) > parseRating(facilities[j].Rating)
		})
	case SortName:
		sort.SliceStable(facilities, func(i, j int) bool {
			return strings.ToLower(facilities[i].Name) < strings.ToLower(facilities[j].Name)
		})
	}
	// Relevance (and anything unrecognized) keeps the base retrieval order.
}

func sortResources(resources []*entities.Resource, sortBy string) {
	switch sortBy {
	case SortRating:
		sort.SliceStable(resources, func(i, j int) bool {
			return parseRating(resources[i].Rating) > parseRating(resources[j].Rating)
		})
	case SortName:
		sort.SliceStable(resources, func(i, j int) bool {
			return strings.ToLower(resources[i].Name) < strings.ToLower(resources[j].Name)
		})
	}
}

// parseRating turns the decimal-as-text rating into a sortable number.
// Unparseable or missing ratings sort last.
func parseRating(rating string) float64 {
	v, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return -1
	}
	return v
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
