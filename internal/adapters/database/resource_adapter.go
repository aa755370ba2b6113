package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

var resourceColumns = []interface{}{
	"id", "name", "category", "description", "contact", "website", "address",
	"city", "state", "zip_code", "rating", "reviews_count", "reviews",
	"photos", "external_id", "logo_url", "last_updated",
}

// ResourceAdapter implements ResourceRepository on PostgreSQL
type ResourceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewResourceAdapter creates a new resource adapter
func NewResourceAdapter(client *postgres.Client) repositories.ResourceRepository {
	return &ResourceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func resourceRecord(r *entities.Resource) (goqu.Record, error) {
	reviews, err := jsonbOrNull(r.Reviews)
	if err != nil {
		return nil, err
	}
	photos, err := jsonbOrNull(r.Photos)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":            r.ID,
		"name":          r.Name,
		"category":      r.Category,
		"description":   r.Description,
		"contact":       r.Contact,
		"website":       nullString(r.Website),
		"address":       nullString(r.Address),
		"city":          nullString(r.City),
		"state":         nullString(r.State),
		"zip_code":      nullString(r.ZipCode),
		"rating":        nullString(r.Rating),
		"reviews_count": r.ReviewsCount,
		"reviews":       reviews,
		"photos":        photos,
		"external_id":   nullString(r.ExternalID),
		"logo_url":      nullString(r.LogoURL),
		"last_updated":  r.LastUpdated,
	}, nil
}

// Create inserts a new resource
func (a *ResourceAdapter) Create(ctx context.Context, resource *entities.Resource) error {
	record, err := resourceRecord(resource)
	if err != nil {
		return apperrors.NewInternalError("failed to encode resource", err)
	}

	query, args, err := a.db.Insert("resources").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create resource", err)
	}

	return nil
}

// GetByID retrieves a resource by ID
func (a *ResourceAdapter) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	return a.getByField(ctx, "id", id)
}

// GetByExternalID retrieves a resource by its external system identifier
func (a *ResourceAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.Resource, error) {
	return a.getByField(ctx, "external_id", externalID)
}

func (a *ResourceAdapter) getByField(ctx context.Context, field, value string) (*entities.Resource, error) {
	query, args, err := a.db.Select(resourceColumns...).
		From("resources").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	resource, err := scanResource(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("resource with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get resource", err)
	}
	return resource, nil
}

// List retrieves resources with filters
func (a *ResourceAdapter) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	ds := a.db.Select(resourceColumns...).From("resources")

	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
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

	return a.queryResources(ctx, query, args...)
}

// SearchText retrieves resources whose name or description contains the
// query, case-insensitively. An empty query matches everything.
func (a *ResourceAdapter) SearchText(ctx context.Context, q string) ([]*entities.Resource, error) {
	ds := a.db.Select(resourceColumns...).From("resources")

	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(name) LIKE ?", pattern),
			goqu.L("LOWER(description) LIKE ?", pattern),
		))
	}

	ds = ds.Order(goqu.I("name").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryResources(ctx, query, args...)
}

// Update replaces a resource's mutable fields
func (a *ResourceAdapter) Update(ctx context.Context, resource *entities.Resource) error {
	resource.LastUpdated = time.Now()

	record, err := resourceRecord(resource)
	if err != nil {
		return apperrors.NewInternalError("failed to encode resource", err)
	}
	delete(record, "id")

	query, args, err := a.db.Update("resources").
		Set(record).
		Where(goqu.Ex{"id": resource.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update resource", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", resource.ID))
	}

	return nil
}

// UpdateScrapeData applies an automated refresh, touching only rating,
// review and photo fields.
func (a *ResourceAdapter) UpdateScrapeData(ctx context.Context, id string, update repositories.ScrapeUpdate) error {
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

	query, args, err := a.db.Update("resources").
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
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}

	return nil
}

func (a *ResourceAdapter) queryResources(ctx context.Context, query string, args ...interface{}) ([]*entities.Resource, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query resources", err)
	}
	defer rows.Close()

	resources := []*entities.Resource{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan resource", err)
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating resources", err)
	}

	return resources, nil
}

func scanResource(row rowScanner) (*entities.Resource, error) {
	resource := &entities.Resource{}
	var website, address, city, state, zipCode, rating, externalID, logoURL sql.NullString
	var reviews, photos []byte

	err := row.Scan(
		&resource.ID,
		&resource.Name,
		&resource.Category,
		&resource.Description,
		&resource.Contact,
		&website,
		&address,
		&city,
		&state,
		&zipCode,
		&rating,
		&resource.ReviewsCount,
		&reviews,
		&photos,
		&externalID,
		&logoURL,
		&resource.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	resource.Website = website.String
	resource.Address = address.String
	resource.City = city.String
	resource.State = state.String
	resource.ZipCode = zipCode.String
	resource.Rating = rating.String
	resource.ExternalID = externalID.String
	resource.LogoURL = logoURL.String

	if err := scanJSONB(reviews, &resource.Reviews); err != nil {
		return nil, err
	}
	if err := scanJSONB(photos, &resource.Photos); err != nil {
		return nil, err
	}

	return resource, nil
}
