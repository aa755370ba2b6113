package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stagesen/senior-living-colorado-sub000/internal/api/handlers"
	"github.com/stagesen/senior-living-colorado-sub000/internal/application/services"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/repositories"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

type MockFacilityService struct {
	mock.Mock
}

func (m *MockFacilityService) Create(ctx context.Context, facility *entities.Facility) error {
	args := m.Called(ctx, facility)
	return args.Error(0)
}

func (m *MockFacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) UpdatePartial(ctx context.Context, id string, patch *services.FacilityPatch) (*entities.Facility, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

type MockFacilitySearcher struct {
	mock.Mock
}

func (m *MockFacilitySearcher) SearchFacilities(ctx context.Context, query string, filters services.SearchFilters, sortBy string, limit, offset int) ([]*entities.Facility, error) {
	args := m.Called(ctx, query, filters, sortBy, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func TestFacilityHandler_GetFacility(t *testing.T) {
	t.Run("returns the facility", func(t *testing.T) {
		mockService := new(MockFacilityService)
		handler := handlers.NewFacilityHandler(mockService, nil)

		mockService.On("GetByID", mock.Anything, "f1").
			Return(&entities.Facility{ID: "f1", Name: "Golden Pond"}, nil)

		req := httptest.NewRequest("GET", "/facilities/f1", nil)
		req.SetPathValue("id", "f1")
		w := httptest.NewRecorder()

		handler.GetFacility(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got entities.Facility
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Golden Pond", got.Name)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown id maps to 404 with message body", func(t *testing.T) {
		mockService := new(MockFacilityService)
		handler := handlers.NewFacilityHandler(mockService, nil)

		mockService.On("GetByID", mock.Anything, "missing").
			Return(nil, apperrors.NewNotFoundError("facility missing not found"))

		req := httptest.NewRequest("GET", "/facilities/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.GetFacility(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body["message"], "not found")
	})
}

func TestFacilityHandler_ListFacilitiesByType(t *testing.T) {
	mockService := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(mockService, nil)

	mockService.On("List", mock.Anything, mock.MatchedBy(func(f repositories.FacilityFilter) bool {
		return f.FacilityType == "memory_care"
	})).Return([]*entities.Facility{{ID: "f2"}}, nil)

	req := httptest.NewRequest("GET", "/facilities/type/memory_care", nil)
	req.SetPathValue("type", "memory_care")
	w := httptest.NewRecorder()

	handler.ListFacilitiesByType(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count int `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	mockService.AssertExpectations(t)
}

func TestFacilityHandler_SearchFacilities(t *testing.T) {
	mockSearcher := new(MockFacilitySearcher)
	handler := handlers.NewFacilityHandler(nil, mockSearcher)

	mockSearcher.On("SearchFacilities", mock.Anything, "memory care",
		services.SearchFilters{Location: "denver_metro"}, "rating", 5, 0).
		Return([]*entities.Facility{{ID: "f1"}}, nil)

	req := httptest.NewRequest("GET", "/facilities/search/memory%20care?location=denver_metro&sort=rating&limit=5", nil)
	req.SetPathValue("query", "memory care")
	w := httptest.NewRecorder()

	handler.SearchFacilities(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSearcher.AssertExpectations(t)
}

func TestFacilityHandler_CreateFacility(t *testing.T) {
	t.Run("creates and returns 201", func(t *testing.T) {
		mockService := new(MockFacilityService)
		handler := handlers.NewFacilityHandler(mockService, nil)

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(f *entities.Facility) bool {
			return f.Name == "Golden Pond"
		})).Return(nil)

		body, _ := json.Marshal(map[string]string{"name": "Golden Pond"})
		req := httptest.NewRequest("POST", "/facilities", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateFacility(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		mockService := new(MockFacilityService)
		handler := handlers.NewFacilityHandler(mockService, nil)

		mockService.On("Create", mock.Anything, mock.Anything).
			Return(apperrors.NewValidationError("missing required fields: phone"))

		body, _ := json.Marshal(map[string]string{"name": "Golden Pond"})
		req := httptest.NewRequest("POST", "/facilities", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateFacility(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		handler := handlers.NewFacilityHandler(new(MockFacilityService), nil)

		req := httptest.NewRequest("POST", "/facilities", bytes.NewBufferString("not-json"))
		w := httptest.NewRecorder()

		handler.CreateFacility(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFacilityHandler_UpdateFacility(t *testing.T) {
	mockService := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(mockService, nil)

	phone := "720-555-0199"
	mockService.On("UpdatePartial", mock.Anything, "f1", mock.MatchedBy(func(p *services.FacilityPatch) bool {
		return p.Phone != nil && *p.Phone == phone && p.Name == nil
	})).Return(&entities.Facility{ID: "f1", Phone: phone}, nil)

	body, _ := json.Marshal(map[string]string{"phone": phone})
	req := httptest.NewRequest("PATCH", "/facilities/f1", bytes.NewReader(body))
	req.SetPathValue("id", "f1")
	w := httptest.NewRecorder()

	handler.UpdateFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
