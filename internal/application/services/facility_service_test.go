package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
	apperrors "github.com/stagesen/senior-living-colorado-sub000/pkg/errors"
)

func validFacility() *entities.Facility {
	return &entities.Facility{
		Name:        "Golden Pond",
		Address:     "1270 Golden Cir",
		City:        "Golden",
		State:       "CO",
		ZipCode:     "80401",
		Phone:       "303-555-0100",
		Description: "A senior living community.",
	}
}

func TestFacilityCreate_AssignsIDAndDefaultType(t *testing.T) {
	repo := &fakeFacilityRepo{}
	svc := NewFacilityService(repo)

	f := validFacility()
	if err := svc.Create(context.Background(), f); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if f.ID == "" {
		t.Error("expected an assigned id")
	}
	if f.FacilityType != entities.FacilityTypeOther {
		t.Errorf("expected default type other, got %q", f.FacilityType)
	}
	if f.LastUpdated.IsZero() {
		t.Error("expected last_updated to be set")
	}
}

func TestFacilityCreate_MissingFieldsRejected(t *testing.T) {
	svc := NewFacilityService(&fakeFacilityRepo{})

	f := validFacility()
	f.Phone = ""
	f.ZipCode = "  "

	err := svc.Create(context.Background(), f)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "phone") || !strings.Contains(err.Error(), "zip_code") {
		t.Errorf("error should name the missing fields: %v", err)
	}
}

func TestFacilityUpdatePartial_MergesOnlyProvidedFields(t *testing.T) {
	stored := validFacility()
	stored.ID = "f1"
	stored.FacilityType = entities.FacilityTypeSeniorLiving
	repo := &fakeFacilityRepo{facilities: []*entities.Facility{stored}}
	svc := NewFacilityService(repo)

	phone := "720-555-0199"
	updated, err := svc.UpdatePartial(context.Background(), "f1", &FacilityPatch{Phone: &phone})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Phone != "720-555-0199" {
		t.Errorf("expected patched phone, got %q", updated.Phone)
	}
	if updated.Name != "Golden Pond" || updated.City != "Golden" {
		t.Error("unpatched fields must be untouched")
	}
}

func TestFacilityUpdatePartial_CannotBlankRequiredField(t *testing.T) {
	stored := validFacility()
	stored.ID = "f1"
	repo := &fakeFacilityRepo{facilities: []*entities.Facility{stored}}
	svc := NewFacilityService(repo)

	empty := ""
	if _, err := svc.UpdatePartial(context.Background(), "f1", &FacilityPatch{Name: &empty}); err == nil {
		t.Fatal("expected validation error when blanking a required field")
	}
}

func TestFacilityUpdatePartial_UnknownID(t *testing.T) {
	svc := NewFacilityService(&fakeFacilityRepo{})
	phone := "720-555-0199"
	_, err := svc.UpdatePartial(context.Background(), "missing", &FacilityPatch{Phone: &phone})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestResourceCreate_Validation(t *testing.T) {
	svc := NewResourceService(&fakeResourceRepo{})

	err := svc.Create(context.Background(), &entities.Resource{Name: "Rides"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"category", "description", "contact"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error should mention %s: %v", field, err)
		}
	}
}

func TestResourceCreate_Valid(t *testing.T) {
	repo := &fakeResourceRepo{}
	svc := NewResourceService(repo)

	r := &entities.Resource{
		Name:        "Senior Rides",
		Category:    "transportation",
		Description: "Door to door rides for seniors.",
		Contact:     "303-555-0100",
	}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if r.ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestFavoriteAdd_InvalidType(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{})
	if err := svc.Add(context.Background(), "procedure", "x"); err == nil {
		t.Fatal("expected validation error for unknown item type")
	}
}

func TestFavoriteAddAndList(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	svc := NewFavoriteService(repo)

	if err := svc.Add(context.Background(), entities.FavoriteTypeFacility, "f1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	favorites, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ItemID != "f1" {
		t.Fatalf("unexpected favorites %+v", favorites)
	}
}

// fakeFavoriteRepo is a minimal in-memory FavoriteRepository.
type fakeFavoriteRepo struct {
	favorites []*entities.Favorite
}

func (r *fakeFavoriteRepo) Add(_ context.Context, f *entities.Favorite) error {
	for _, existing := range r.favorites {
		if existing.ItemType == f.ItemType && existing.ItemID == f.ItemID {
			return nil
		}
	}
	r.favorites = append(r.favorites, f)
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, itemType, itemID string) error {
	for i, f := range r.favorites {
		if f.ItemType == itemType && f.ItemID == itemID {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("favorite not found")
}

func (r *fakeFavoriteRepo) List(_ context.Context) ([]*entities.Favorite, error) {
	return r.favorites, nil
}
