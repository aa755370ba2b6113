package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/apify"
)

// TransformService turns heterogeneous scrape records into canonical drafts.
type TransformService struct {
	rules *Rules
}

// NewTransformService creates a new transform service.
func NewTransformService(rules *Rules) *TransformService {
	return &TransformService{rules: rules}
}

// IsFacility classifies a scrape record. A record is a facility when its
// derived category is senior_living, or when it carries a full street
// address, or when it has geo-coordinates; everything else lands in the
// resource directory.
func (s *TransformService) IsFacility(item *apify.PlaceItem) bool {
	if s.rules.DeriveCategory(item.CategoryName) == entities.FacilityTypeSeniorLiving {
		return true
	}
	if item.Address != "" && item.City != "" && item.State != "" {
		return true
	}
	return item.Location != nil
}

// FacilityFromItem builds a facility draft from a scrape record. The caller
// assigns the ID.
func (s *TransformService) FacilityFromItem(item *apify.PlaceItem) *entities.Facility {
	category := s.rules.DeriveCategory(item.CategoryName)
	rating := formatRating(item.TotalScore)
	reviewsCount := 0
	if item.ReviewsCount != nil {
		reviewsCount = *item.ReviewsCount
	}

	return &entities.Facility{
		Name:         item.Title,
		FacilityType: category,
		Address:      item.Address,
		City:         item.City,
		State:        item.State,
		ZipCode:      item.PostalCode,
		Phone:        item.Phone,
		Website:      item.Website,
		Description:  s.description(item, category),
		Amenities:    item.Amenities(),
		Rating:       rating,
		ReviewsCount: reviewsCount,
		Reviews:      normalizeReviews(item.Reviews),
		Photos:       normalizePhotos(item.ImageURLs),
		ExternalID:   item.PlaceID,
		LastUpdated:  time.Now(),
	}
}

// ResourceFromItem builds a resource draft from a scrape record.
func (s *TransformService) ResourceFromItem(item *apify.PlaceItem) *entities.Resource {
	category := s.rules.DeriveCategory(item.CategoryName)
	rating := formatRating(item.TotalScore)
	reviewsCount := 0
	if item.ReviewsCount != nil {
		reviewsCount = *item.ReviewsCount
	}

	return &entities.Resource{
		Name:         item.Title,
		Category:     category,
		Description:  s.description(item, category),
		Contact:      item.Phone,
		Website:      item.Website,
		Address:      item.Address,
		City:         item.City,
		State:        item.State,
		ZipCode:      item.PostalCode,
		Rating:       rating,
		ReviewsCount: reviewsCount,
		Reviews:      normalizeReviews(item.Reviews),
		Photos:       normalizePhotos(item.ImageURLs),
		ExternalID:   item.PlaceID,
		LastUpdated:  time.Now(),
	}
}

// ScrapeUpdateFromItem extracts the fields an automated refresh may apply to
// an existing entity.
func (s *TransformService) ScrapeUpdateFromItem(item *apify.PlaceItem) (string, int, []entities.Review, []entities.Photo) {
	reviewsCount := 0
	if item.ReviewsCount != nil {
		reviewsCount = *item.ReviewsCount
	}
	return formatRating(item.TotalScore), reviewsCount,
		normalizeReviews(item.Reviews), normalizePhotos(item.ImageURLs)
}

// description uses the scraped text when present, otherwise synthesizes a
// sentence from name, category and city, plus a rating sentence when a
// rating was scraped.
func (s *TransformService) description(item *apify.PlaceItem, category string) string {
	if item.Description != "" {
		return item.Description
	}

	label := strings.ReplaceAll(category, "_", " ")

	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString(" is a ")
	b.WriteString(label)
	if item.City != "" {
		b.WriteString(" in ")
		b.WriteString(item.City)
	}
	b.WriteString(".")

	if item.TotalScore != nil {
		reviewsCount := 0
		if item.ReviewsCount != nil {
			reviewsCount = *item.ReviewsCount
		}
		b.WriteString(" It has a rating of ")
		b.WriteString(formatRating(item.TotalScore))
		b.WriteString(" based on ")
		b.WriteString(strconv.Itoa(reviewsCount))
		b.WriteString(" reviews.")
	}

	return b.String()
}

func formatRating(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

// normalizeReviews applies field fallbacks. An empty input collapses to nil
// so a re-scrape with no reviews never clobbers stored ones.
func normalizeReviews(in []apify.PlaceReview) []entities.Review {
	if len(in) == 0 {
		return nil
	}
	out := make([]entities.Review, 0, len(in))
	for _, r := range in {
		author := r.Name
		if author == "" {
			author = "Anonymous"
		}
		date := r.PublishedDate
		if date == "" {
			date = time.Now().Format(time.RFC3339)
		}
		out = append(out, entities.Review{
			Author: author,
			Date:   date,
			Rating: r.Stars,
			Text:   r.Text,
			Source: "Google Maps",
		})
	}
	return out
}

// normalizePhotos wraps scraped image URLs. Empty input collapses to nil.
func normalizePhotos(urls []string) []entities.Photo {
	if len(urls) == 0 {
		return nil
	}
	out := make([]entities.Photo, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		out = append(out, entities.Photo{
			URL:    u,
			Source: "Google Maps",
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
