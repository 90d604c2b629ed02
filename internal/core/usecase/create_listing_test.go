package usecase

import (
	"context"
	"testing"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/slugger"
)

func strPtr(s string) *string { return &s }

func mustSlugger(t *testing.T, probe slugger.SlugProbe) *slugger.Generator {
	t.Helper()
	gen, err := slugger.NewGenerator(probe)
	if err != nil {
		t.Fatalf("failed to build slug generator: %v", err)
	}
	return gen
}

func TestCreateListingGeocodesAddress(t *testing.T) {
	storage := newFakeListingStorage()
	geo := resolvedGeocoder(55.75, 37.61)
	publisher := &fakePublisher{}
	uc := NewCreateListingUseCase(storage, geo, mustSlugger(t, storage), &fakeUploader{}, publisher)

	draft := domain.ListingDraft{
		Status:           domain.StatusActive,
		OperationID:      1,
		PropertyTypeID:   1,
		Price:            1_000_000,
		Address:          strPtr("Москва, Ленина 5"),
		ShortDescription: strPtr("Дом у парка"),
	}

	listing, _, err := uc.Execute(context.Background(), draft, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(storage.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(storage.created))
	}
	saved := storage.created[0].draft
	if saved.Latitude == nil || *saved.Latitude != 55.75 {
		t.Errorf("latitude not applied: %+v", saved.Latitude)
	}
	if saved.Geohash == nil || *saved.Geohash == "" {
		t.Error("geohash not derived from coordinates")
	}
	if listing.Slug != "moskva-lenina-5-dom-u-parka" {
		t.Errorf("slug = %q", listing.Slug)
	}

	if len(publisher.events) != 1 || publisher.events[0].Type != domain.EventListingCreated {
		t.Errorf("events = %+v, want a single listing.created", publisher.events)
	}
}

func TestCreateListingSurvivesGeocodeFailure(t *testing.T) {
	storage := newFakeListingStorage()
	geo := failedGeocoder(domain.GeocodeError)
	uc := NewCreateListingUseCase(storage, geo, mustSlugger(t, storage), &fakeUploader{}, &fakePublisher{})

	lat, lng := 1.0, 2.0
	draft := domain.ListingDraft{
		Status:         domain.StatusActive,
		OperationID:    1,
		PropertyTypeID: 1,
		Price:          1_000_000,
		Address:        strPtr("несуществующий адрес"),
		// Предзаполненные координаты не переживают неудачное геокодирование
		Latitude:  &lat,
		Longitude: &lng,
	}

	if _, _, err := uc.Execute(context.Background(), draft, nil); err != nil {
		t.Fatalf("geocode failure must not block creation: %v", err)
	}

	saved := storage.created[0].draft
	if saved.Latitude != nil || saved.Longitude != nil || saved.Geohash != nil {
		t.Errorf("coordinates must be dropped after failed geocoding: %+v", saved)
	}
}

func TestCreateListingExplicitCoordsWithoutAddress(t *testing.T) {
	storage := newFakeListingStorage()
	geo := &fakeGeocoder{}
	uc := NewCreateListingUseCase(storage, geo, mustSlugger(t, storage), &fakeUploader{}, &fakePublisher{})

	lat, lng := 55.75, 37.61
	draft := domain.ListingDraft{
		Status:         domain.StatusActive,
		OperationID:    1,
		PropertyTypeID: 1,
		Price:          1_000_000,
		Latitude:       &lat,
		Longitude:      &lng,
	}

	if _, _, err := uc.Execute(context.Background(), draft, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geo.calls) != 0 {
		t.Errorf("geocoder must not run without an address, calls = %v", geo.calls)
	}
	saved := storage.created[0].draft
	if saved.Geohash == nil || *saved.Geohash == "" {
		t.Error("geohash must be derived from the explicit coordinate pair")
	}
	if saved.Latitude == nil || *saved.Latitude != lat {
		t.Errorf("explicit coordinates lost: %+v", saved.Latitude)
	}
}

func TestCreateListingWithoutAddressSkipsGeocoder(t *testing.T) {
	storage := newFakeListingStorage()
	geo := &fakeGeocoder{}
	uc := NewCreateListingUseCase(storage, geo, mustSlugger(t, storage), &fakeUploader{}, &fakePublisher{})

	draft := domain.ListingDraft{Status: domain.StatusDraft, OperationID: 1, PropertyTypeID: 1, Price: 500_000}
	if _, _, err := uc.Execute(context.Background(), draft, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(geo.calls) != 0 {
		t.Errorf("geocoder called %d times for nil address", len(geo.calls))
	}
}

func TestCreateListingAttachesPhotos(t *testing.T) {
	storage := newFakeListingStorage()
	uploader := &fakeUploader{}
	uc := NewCreateListingUseCase(storage, &fakeGeocoder{}, mustSlugger(t, storage), uploader, &fakePublisher{})

	files := []domain.UploadFile{{Name: "a.jpg"}, {Name: "b.jpg"}}
	draft := domain.ListingDraft{Status: domain.StatusActive, OperationID: 1, PropertyTypeID: 1, Price: 100}

	_, photos, err := uc.Execute(context.Background(), draft, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploader.calls != 1 || len(photos) != 2 {
		t.Errorf("uploader calls = %d, photos = %d", uploader.calls, len(photos))
	}
	if !photos[0].IsMain {
		t.Error("first uploaded photo must be main for a fresh listing")
	}
}

func TestCreateListingPublishFailureIsNotFatal(t *testing.T) {
	storage := newFakeListingStorage()
	publisher := &fakePublisher{err: errStorageDown}
	uc := NewCreateListingUseCase(storage, &fakeGeocoder{}, mustSlugger(t, storage), &fakeUploader{}, publisher)

	draft := domain.ListingDraft{Status: domain.StatusActive, OperationID: 1, PropertyTypeID: 1, Price: 100}
	if _, _, err := uc.Execute(context.Background(), draft, nil); err != nil {
		t.Fatalf("publish failure must not fail creation: %v", err)
	}
}

func TestCreateListingStorageError(t *testing.T) {
	storage := newFakeListingStorage()
	storage.err = errStorageDown
	publisher := &fakePublisher{}
	uc := NewCreateListingUseCase(storage, &fakeGeocoder{}, mustSlugger(t, storage), &fakeUploader{}, publisher)

	draft := domain.ListingDraft{Status: domain.StatusActive, OperationID: 1, PropertyTypeID: 1, Price: 100}
	if _, _, err := uc.Execute(context.Background(), draft, nil); err == nil {
		t.Fatal("expected an error")
	}
	if len(publisher.events) != 0 {
		t.Errorf("no events expected after failed create, got %+v", publisher.events)
	}
}
