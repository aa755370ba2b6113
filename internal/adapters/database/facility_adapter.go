package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

var facilityColumns = []interface{}{
	"id", "name", "facility_type", "address", "city", "state", "zip_code",
	"county", "phone", "email", "website", "description", "amenities",
	"services", "services_detail", "rating", "reviews_count", "reviews",
	"photos", "external_id", "logo_url", "last_updated",
}

// FacilityAdapter implements FacilityRepository on PostgreSQL
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func facilityRecord(f *entities.Facility) (goqu.Record, error) {
	servicesDetail, err := jsonbOrNull(f.ServicesDetail)
	if err != nil {
		return nil, err
	}
	reviews, err := jsonbOrNull(f.Reviews)
	if err != nil {
		return nil, err
	}
	photos, err := jsonbOrNull(f.Photos)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":              f.ID,
		"name":            f.Name,
		"facility_type":   f.FacilityType,
		"address":         f.Address,
		"city":            f.City,
		"state":           f.State,
		"zip_code":        f.ZipCode,
		"county":          nullString(f.County),
		"phone":           f.Phone,
		"email":           nullString(f.Email),
		"website":         nullString(f.Website),
		"description":     f.Description,
		"amenities":       pq.Array(f.Amenities),
		"services":        pq.Array(f.Services),
		"services_detail": servicesDetail,
		"rating":          nullString(f.Rating),
		"reviews_count":   f.ReviewsCount,
		"reviews":         reviews,
		"photos":          photos,
		"external_id":     nullString(f.ExternalID),
		"logo_url":        nullString(f.LogoURL),
		"last_updated":    f.LastUpdated,
	}, nil
}

// Create inserts a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	record, err := facilityRecord(facility)
	if err != nil {
		return apperrors.NewInternalError("failed to encode facility", err)
	}

	query, args, err := a.db.Insert("facilities").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return a.getByField(ctx, "id", id)
}

// GetByExternalID retrieves a facility by its external system identifier
func (a *FacilityAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.Facility, error) {
	return a.getByField(ctx, "external_id", externalID)
}

func (a *FacilityAdapter) getByField(ctx context.Context, field, value string) (*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).
		From("facilities").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}
	return facility, nil
}

// List retrieves facilities with filters
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ds := a.db.Select(facilityColumns...).From("facilities")

	if filter.FacilityType != "" {
		ds = ds.Where(goqu.Ex{"facility_type": filter.FacilityType})
	}

	ds = ds.Order(goqu.I("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryFacilities(ctx, query, args...)
}

// SearchText retrieves facilities whose name, description, city or address
// contains the query, case-insensitively. An empty query matches everything.
func (a *FacilityAdapter) SearchText(ctx context.Context, q string) ([]*entities.Facility, error) {
	ds := a.db.Select(facilityColumns...).From("facilities")

	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(name) LIKE ?", pattern),
			goqu.L("LOWER(description) LIKE ?", pattern),
			goqu.L("LOWER(city) LIKE ?", pattern),
			goqu.L("LOWER(address) LIKE ?", pattern),
		))
	}

	ds = ds.Order(goqu.I("name").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryFacilities(ctx, query, args...)
}

// Update replaces a facility's mutable fields
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	facility.LastUpdated = time.Now()

	record, err := facilityRecord(facility)
	if err != nil {
		return apperrors.NewInternalError("failed to encode facility", err)
	}
	delete(record, "id")

	query, args, err := a.db.Update("facilities").
		Set(record).
		Where(goqu.Ex{"id": facility.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update facility", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", facility.ID))
	}

	return nil
}

// UpdateScrapeData applies an automated refresh. Only rating, review and photo
// fields are touched; a nil slice in the update leaves the stored value alone.
func (a *FacilityAdapter) UpdateScrapeData(ctx context.Context, id string, update repositories.ScrapeUpdate) error {
	record := goqu.Record{
		"last_updated": time.Now(),
	}
	if update.Rating != "" {
		record["rating"] = update.Rating
		record["reviews_count"] = update.ReviewsCount
	}
	if update.Reviews != nil {
		reviews, err := jsonbOrNull(update.Reviews)
		if err != nil {
			return apperrors.NewInternalError("failed to encode reviews", err)
		}
		if reviews != nil {
			record["reviews"] = reviews
		}
	}
	if update.Photos != nil {
		photos, err := jsonbOrNull(update.Photos)
		if err != nil {
			return apperrors.NewInternalError("failed to encode photos", err)
		}
		if photos != nil {
			record["photos"] = photos
		}
	}

	query, args, err := a.db.Update("facilities").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update scrape data", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}

	return nil
}

func (a *FacilityAdapter) queryFacilities(ctx context.Context, query string, args ...interface{}) ([]*entities.Facility, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var county, email, website, rating, externalID, logoURL sql.NullString
	var servicesDetail, reviews, photos []byte

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facility.FacilityType,
		&facility.Address,
		&facility.City,
		&facility.State,
		&facility.ZipCode,
		&county,
		&facility.Phone,
		&email,
		&website,
		&facility.Description,
		pq.Array(&facility.Amenities),
		pq.Array(&facility.Services),
		&servicesDetail,
		&rating,
		&facility.ReviewsCount,
		&reviews,
		&photos,
		&externalID,
		&logoURL,
		&facility.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	facility.County = county.String
	facility.Email = email.String
	facility.Website = website.String
	facility.Rating = rating.String
	facility.ExternalID = externalID.String
	facility.LogoURL = logoURL.String

	if err := scanJSONB(servicesDetail, &facility.ServicesDetail); err != nil {
		return nil, err
	}
	if err := scanJSONB(reviews, &facility.Reviews); err != nil {
		return nil, err
	}
	if err := scanJSONB(photos, &facility.Photos); err != nil {
		return nil, err
	}

	return facility, nil
}
