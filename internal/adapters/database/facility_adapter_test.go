package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	"github.com/stagesen/senior-living-colorado-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

func setupMockFacilityDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, repositories.FacilityRepository) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	adapter := NewFacilityAdapter(postgres.NewClientWithDB(db))
	return db, mock, adapter
}

func facilityRows(id, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "facility_type", "address", "city", "state", "zip_code",
		"county", "phone", "email", "website", "description", "amenities",
		"services", "services_detail", "rating", "reviews_count", "reviews",
		"photos", "external_id", "logo_url", "last_updated",
	}).AddRow(
		id, name, entities.FacilityTypeSeniorLiving, "1270 N Ford St", "Golden", "CO", "80403",
		"Jefferson", "303-555-0100", nil, nil, "A senior living community.",
		pq.Array([]string{"On-site dining"}), pq.Array([]string{"Memory care"}),
		nil, "4.5", 28, []byte(`[{"author":"Pat","date":"2025-06-01","text":"Great staff","source":"Google Maps"}]`),
		nil, "place-123", nil, time.Now(),
	)
}

func TestFacilityGetByID(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	id := uuid.New().String()
	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE \("id" = '` + id + `'\)`).
		WillReturnRows(facilityRows(id, "Golden Pond"))

	facility, err := adapter.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Golden Pond", facility.Name)
	assert.Equal(t, entities.FacilityTypeSeniorLiving, facility.FacilityType)
	assert.Equal(t, "4.5", facility.Rating)
	assert.Equal(t, []string{"On-site dining"}, facility.Amenities)
	require.Len(t, facility.Reviews, 1)
	assert.Equal(t, "Pat", facility.Reviews[0].Author)
	// Nullable columns come back as empty strings.
	assert.Empty(t, facility.Email)
	assert.Empty(t, facility.Website)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityGetByIDNotFound(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM "facilities"`).
		WillReturnError(sql.ErrNoRows)

	facility, err := adapter.GetByID(context.Background(), uuid.New().String())

	assert.Nil(t, facility)
	assert.True(t, apperrors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityGetByExternalID(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	id := uuid.New().String()
	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE \("external_id" = 'place-123'\)`).
		WillReturnRows(facilityRows(id, "Golden Pond"))

	facility, err := adapter.GetByExternalID(context.Background(), "place-123")

	require.NoError(t, err)
	assert.Equal(t, "place-123", facility.ExternalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityListFiltersByType(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE \("facility_type" = 'memory_care'\) ORDER BY "name" ASC LIMIT 10`).
		WillReturnRows(facilityRows(uuid.New().String(), "Quiet Meadows"))

	facilities, err := adapter.List(context.Background(), repositories.FacilityFilter{
		FacilityType: entities.FacilityTypeMemoryCare,
		Limit:        10,
	})

	require.NoError(t, err)
	require.Len(t, facilities, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilitySearchTextEmptyQueryMatchesAll(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM "facilities" ORDER BY "name" ASC`).
		WillReturnRows(facilityRows(uuid.New().String(), "Golden Pond"))

	facilities, err := adapter.SearchText(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, facilities, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilitySearchTextNoMatchesIsEmptyNotError(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE .*LIKE '%zzz%'`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	facilities, err := adapter.SearchText(context.Background(), "ZZZ")

	require.NoError(t, err)
	assert.Empty(t, facilities)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilitySearchTextMatchesNameDescriptionCityAddressOnly(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	// The address clause must be the last one before ORDER BY, so no other
	// columns sneak into the match set.
	mock.ExpectQuery(`WHERE \(\(LOWER\(name\) LIKE '%denver%'\) OR ` +
		`\(LOWER\(description\) LIKE '%denver%'\) OR ` +
		`\(LOWER\(city\) LIKE '%denver%'\) OR ` +
		`\(LOWER\(address\) LIKE '%denver%'\)\) ORDER BY "name" ASC`).
		WillReturnRows(facilityRows(uuid.New().String(), "Denver Gardens"))

	facilities, err := adapter.SearchText(context.Background(), "Denver")

	require.NoError(t, err)
	require.Len(t, facilities, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityUpdateScrapeDataTouchesOnlyScrapeColumns(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	// Curated columns never appear in the generated UPDATE.
	mock.ExpectExec(`UPDATE "facilities" SET [^;]*"rating"[^;]*WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.UpdateScrapeData(context.Background(), uuid.New().String(), repositories.ScrapeUpdate{
		Rating:       "4.8",
		ReviewsCount: 31,
		Reviews: []entities.Review{
			{Author: "Anonymous", Date: "2025-07-01", Text: "Lovely place", Source: "Google Maps"},
		},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityUpdateScrapeDataNotFound(t *testing.T) {
	db, mock, adapter := setupMockFacilityDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE "facilities"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.UpdateScrapeData(context.Background(), uuid.New().String(), repositories.ScrapeUpdate{
		Rating:       "4.0",
		ReviewsCount: 2,
	})

	assert.True(t, apperrors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
