package usecase

import (
	"context"
	"testing"

	"catalog-service/internal/core/domain"
)

func existingListing() *domain.Listing {
	return &domain.Listing{
		ID:               1,
		Slug:             "lenina-5-dom-u-parka",
		Status:           domain.StatusActive,
		Address:          strPtr("Ленина 5"),
		ShortDescription: strPtr("Дом у парка"),
	}
}

func TestUpdateListingRegeocodesChangedAddress(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := resolvedGeocoder(59.93, 30.33)
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	patch := domain.ListingPatch{Address: strPtr("Невский проспект 10")}
	if _, err := uc.Execute(context.Background(), 1, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 1 || geo.calls[0] != "Невский проспект 10" {
		t.Fatalf("geocoder calls = %v", geo.calls)
	}

	applied := storage.updates[0]
	if applied.patch.Latitude == nil || *applied.patch.Latitude != 59.93 {
		t.Errorf("latitude not applied: %+v", applied.patch.Latitude)
	}
	if applied.patch.Geohash == nil {
		t.Error("geohash not derived")
	}
	if applied.newSlug == nil {
		t.Error("address change must regenerate slug")
	}
}

func TestUpdateListingClearsCoordsWhenRegeocodeFails(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := failedGeocoder(domain.GeocodeNotFound)
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	patch := domain.ListingPatch{Address: strPtr("адрес в никуда")}
	if _, err := uc.Execute(context.Background(), 1, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applied := storage.updates[0].patch
	if !applied.ClearCoordinates {
		t.Error("stale coordinates must be cleared when re-geocoding fails")
	}
	if applied.Latitude != nil || applied.Longitude != nil || applied.Geohash != nil {
		t.Errorf("coordinates must be nil: %+v", applied)
	}
}

func TestUpdateListingExplicitCoordsSkipGeocoder(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := &fakeGeocoder{}
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	lat, lng := 55.0, 37.0
	patch := domain.ListingPatch{
		Address:   strPtr("Невский проспект 10"),
		Latitude:  &lat,
		Longitude: &lng,
	}
	if _, err := uc.Execute(context.Background(), 1, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 0 {
		t.Errorf("geocoder must not be called with explicit coordinates, calls = %v", geo.calls)
	}
	if storage.updates[0].patch.Geohash == nil {
		t.Error("geohash must be derived from explicit coordinates")
	}
}

func TestUpdateListingUnchangedAddressKeepsSlugAndCoords(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := &fakeGeocoder{}
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	price := 2_000_000.0
	if _, err := uc.Execute(context.Background(), 1, domain.ListingPatch{Price: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 0 {
		t.Errorf("geocoder must not run without address change, calls = %v", geo.calls)
	}
	if storage.updates[0].newSlug != nil {
		t.Errorf("slug must not change, got %q", *storage.updates[0].newSlug)
	}
}

func TestUpdateListingShortDescriptionChangeRegeneratesSlug(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := &fakeGeocoder{}
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	patch := domain.ListingPatch{ShortDescription: strPtr("Дом у леса")}
	if _, err := uc.Execute(context.Background(), 1, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 0 {
		t.Error("description change alone must not trigger geocoding")
	}
	applied := storage.updates[0]
	if applied.newSlug == nil {
		t.Fatal("description change must regenerate slug")
	}
	if *applied.newSlug != "lenina-5-dom-u-lesa" {
		t.Errorf("slug = %q", *applied.newSlug)
	}
}

func TestUpdateListingSameAddressValueIsNotAChange(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	geo := &fakeGeocoder{}
	uc := NewUpdateListingUseCase(storage, geo, mustSlugger(t, storage), &fakePublisher{})

	// То же значение адреса, что уже сохранено
	patch := domain.ListingPatch{Address: strPtr("Ленина 5")}
	if _, err := uc.Execute(context.Background(), 1, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 0 {
		t.Error("same address value must not trigger geocoding")
	}
	if storage.updates[0].newSlug != nil {
		t.Error("same address value must not regenerate slug")
	}
}

func TestUpdateListingMissingListing(t *testing.T) {
	storage := newFakeListingStorage()
	uc := NewUpdateListingUseCase(storage, &fakeGeocoder{}, mustSlugger(t, storage), &fakePublisher{})

	_, err := uc.Execute(context.Background(), 99, domain.ListingPatch{})
	if err != domain.ErrListingNotFound {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestUpdateListingPublishesEvent(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	publisher := &fakePublisher{}
	uc := NewUpdateListingUseCase(storage, &fakeGeocoder{}, mustSlugger(t, storage), publisher)

	price := 100.0
	if _, err := uc.Execute(context.Background(), 1, domain.ListingPatch{Price: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != domain.EventListingUpdated {
		t.Errorf("events = %+v, want a single listing.updated", publisher.events)
	}
}
