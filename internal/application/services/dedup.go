package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

// DuplicateSet is one group of suspected duplicates. Keep is the most
// complete record; Remove lists the rest. The engine only reports — nothing
// is deleted automatically.
type DuplicateSet struct {
	Reason string   `json:"reason"`
	Keep   string   `json:"keep"`
	Remove []string `json:"remove"`
}

// DedupService finds duplicate entities, both online during ingestion and in
// an offline batch report.
type DedupService struct {
	facilityRepo repositories.FacilityRepository
	resourceRepo repositories.ResourceRepository
}

// NewDedupService creates a new dedup service.
func NewDedupService(facilityRepo repositories.FacilityRepository, resourceRepo repositories.ResourceRepository) *DedupService {
	return &DedupService{
		facilityRepo: facilityRepo,
		resourceRepo: resourceRepo,
	}
}

// MatchFacility finds the stored facility an incoming draft duplicates, or
// nil when the draft is new. external_id wins over name+address: the scraper
// assigns stable place IDs, and name or address edits must not fork a row.
func (s *DedupService) MatchFacility(ctx context.Context, draft *entities.Facility) (*entities.Facility, error) {
	if draft.ExternalID != "" {
		existing, err := s.facilityRepo.GetByExternalID(ctx, draft.ExternalID)
		if err == nil {
			return existing, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	// Candidates come from a text search on both name and address; the exact
	// match below decides.
	candidates, err := s.facilityRepo.SearchText(ctx, draft.Name)
	if err != nil {
		return nil, err
	}
	if draft.Address != "" {
		byAddress, err := s.facilityRepo.SearchText(ctx, draft.Address)
		if err != nil {
			return nil, err
		}
		candidates = mergeFacilities(candidates, byAddress)
	}

	name := normalizeKey(draft.Name)
	address := normalizeKey(draft.Address)
	for _, c := range candidates {
		if normalizeKey(c.Name) == name && normalizeKey(c.Address) == address {
			return c, nil
		}
	}
	return nil, nil
}

// MatchResource is the resource counterpart of MatchFacility.
func (s *DedupService) MatchResource(ctx context.Context, draft *entities.Resource) (*entities.Resource, error) {
	if draft.ExternalID != "" {
		existing, err := s.resourceRepo.GetByExternalID(ctx, draft.ExternalID)
		if err == nil {
			return existing, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	candidates, err := s.resourceRepo.SearchText(ctx, draft.Name)
	if err != nil {
		return nil, err
	}
	if draft.Address != "" {
		byAddress, err := s.resourceRepo.SearchText(ctx, draft.Address)
		if err != nil {
			return nil, err
		}
		candidates = mergeResources(candidates, byAddress)
	}

	name := normalizeKey(draft.Name)
	address := normalizeKey(draft.Address)
	for _, c := range candidates {
		if normalizeKey(c.Name) == name && normalizeKey(c.Address) == address {
			return c, nil
		}
	}
	return nil, nil
}

func mergeFacilities(a, b []*entities.Facility) []*entities.Facility {
	seen := make(map[string]struct{}, len(a))
	for _, f := range a {
		seen[f.ID] = struct{}{}
	}
	for _, f := range b {
		if _, ok := seen[f.ID]; !ok {
			seen[f.ID] = struct{}{}
			a = append(a, f)
		}
	}
	return a
}

func mergeResources(a, b []*entities.Resource) []*entities.Resource {
	seen := make(map[string]struct{}, len(a))
	for _, r := range a {
		seen[r.ID] = struct{}{}
	}
	for _, r := range b {
		if _, ok := seen[r.ID]; !ok {
			seen[r.ID] = struct{}{}
			a = append(a, r)
		}
	}
	return a
}

// FacilityReport runs the offline batch pass over the full facility set:
// name groups first, then a same-city pass over address similarity.
func (s *DedupService) FacilityReport(ctx context.Context) ([]DuplicateSet, error) {
	facilities, err := s.facilityRepo.List(ctx, repositories.FacilityFilter{})
	if err != nil {
		return nil, err
	}

	var sets []DuplicateSet

	// Pass 1: identical names.
	byName := make(map[string][]*entities.Facility)
	for _, f := range facilities {
		key := normalizeKey(f.Name)
		byName[key] = append(byName[key], f)
	}
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		sets = append(sets, rankFacilityGroup("same name", group))
	}

	// Pass 2: same city, different names, similar addresses.
	byCity := make(map[string][]*entities.Facility)
	for _, f := range facilities {
		byCity[normalizeKey(f.City)] = append(byCity[normalizeKey(f.City)], f)
	}
	for _, group := range byCity {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if normalizeKey(a.Name) == normalizeKey(b.Name) {
					continue // already covered by pass 1
				}
				if similarAddresses(a.Address, b.Address) {
					sets = append(sets, rankFacilityGroup("similar address", []*entities.Facility{a, b}))
				}
			}
		}
	}

	return sets, nil
}

// ResourceReport is the resource counterpart of FacilityReport. The address
// pass only considers resources that carry an address; contact-only listings
// are matched by name alone.
func (s *DedupService) ResourceReport(ctx context.Context) ([]DuplicateSet, error) {
	resources, err := s.resourceRepo.List(ctx, repositories.ResourceFilter{})
	if err != nil {
		return nil, err
	}

	var sets []DuplicateSet

	byName := make(map[string][]*entities.Resource)
	for _, r := range resources {
		key := normalizeKey(r.Name)
		byName[key] = append(byName[key], r)
	}
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		sets = append(sets, rankResourceGroup("same name", group))
	}

	byCity := make(map[string][]*entities.Resource)
	for _, r := range resources {
		if r.Address == "" {
			continue
		}
		byCity[normalizeKey(r.City)] = append(byCity[normalizeKey(r.City)], r)
	}
	for _, group := range byCity {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if normalizeKey(a.Name) == normalizeKey(b.Name) {
					continue // already covered by the name pass
				}
				if similarAddresses(a.Address, b.Address) {
					sets = append(sets, rankResourceGroup("similar address", []*entities.Resource{a, b}))
				}
			}
		}
	}

	return sets, nil
}

func rankFacilityGroup(reason string, group []*entities.Facility) DuplicateSet {
	best := 0
	bestScore := facilityCompleteness(group[0])
	for i := 1; i < len(group); i++ {
		if score := facilityCompleteness(group[i]); score > bestScore {
			best, bestScore = i, score
		}
	}

	set := DuplicateSet{Reason: reason, Keep: group[best].ID}
	for i, f := range group {
		if i != best {
			set.Remove = append(set.Remove, f.ID)
		}
	}
	return set
}

func rankResourceGroup(reason string, group []*entities.Resource) DuplicateSet {
	best := 0
	bestScore := resourceCompleteness(group[0])
	for i := 1; i < len(group); i++ {
		if score := resourceCompleteness(group[i]); score > bestScore {
			best, bestScore = i, score
		}
	}

	set := DuplicateSet{Reason: reason, Keep: group[best].ID}
	for i, r := range group {
		if i != best {
			set.Remove = append(set.Remove, r.ID)
		}
	}
	return set
}

// facilityCompleteness counts populated fields. More populated wins the
// keep slot in a duplicate set.
func facilityCompleteness(f *entities.Facility) int {
	score := 0
	for _, s := range []string{
		f.Name, f.FacilityType, f.Address, f.City, f.State, f.ZipCode,
		f.County, f.Phone, f.Email, f.Website, f.Description, f.Rating,
		f.ExternalID, f.LogoURL,
	} {
		if strings.TrimSpace(s) != "" {
			score++
		}
	}
	if len(f.Amenities) > 0 {
		score++
	}
	if len(f.Services) > 0 {
		score++
	}
	if len(f.ServicesDetail) > 0 {
		score++
	}
	if len(f.Reviews) > 0 {
		score++
	}
	if len(f.Photos) > 0 {
		score++
	}
	if f.ReviewsCount > 0 {
		score++
	}
	return score
}

func resourceCompleteness(r *entities.Resource) int {
	score := 0
	for _, s := range []string{
		r.Name, r.Category, r.Description, r.Contact, r.Website, r.Address,
		r.City, r.State, r.ZipCode, r.Rating, r.ExternalID, r.LogoURL,
	} {
		if strings.TrimSpace(s) != "" {
			score++
		}
	}
	if len(r.Reviews) > 0 {
		score++
	}
	if len(r.Photos) > 0 {
		score++
	}
	if r.ReviewsCount > 0 {
		score++
	}
	return score
}

var punctPattern = regexp.MustCompile(`[^\w\s]`)

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeAddress(s string) string {
	cleaned := punctPattern.ReplaceAllString(strings.ToLower(s), "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// similarAddresses reports whether two addresses likely refer to the same
// place: equal after normalization, one containing the other, or sharing at
// least three meaningful tokens.
func similarAddresses(a, b string) bool {
	na, nb := normalizeAddress(a), normalizeAddress(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(na) {
		if len(t) > 1 {
			tokens[t] = struct{}{}
		}
	}
	common := 0
	for _, t := range strings.Fields(nb) {
		if len(t) > 1 {
			if _, ok := tokens[t]; ok {
				common++
				delete(tokens, t)
			}
		}
	}
	return common >= 3
}
