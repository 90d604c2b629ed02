package usecase

import (
	"context"
	"errors"
	"testing"

	"catalog-service/internal/core/domain"
)

func TestDeleteListingRemovesFilesAndRow(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	photos := &fakePhotoStorage{photos: []domain.Photo{
		{ID: 1, ListingID: 1, URL: "/uploads/properties/a.jpg", IsMain: true},
		{ID: 2, ListingID: 1, URL: "/uploads/properties/b.jpg"},
	}}
	files := &fakeFileStorage{}
	publisher := &fakePublisher{}
	uc := NewDeleteListingUseCase(storage, photos, files, publisher)

	if err := uc.Execute(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files.removed) != 2 {
		t.Errorf("removed %d files, want 2", len(files.removed))
	}
	if len(storage.deletedIDs) != 1 || storage.deletedIDs[0] != 1 {
		t.Errorf("deleted ids = %v", storage.deletedIDs)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != domain.EventListingDeleted {
		t.Errorf("events = %+v, want a single listing.deleted", publisher.events)
	}
}

func TestDeleteListingFileFailureDoesNotAbort(t *testing.T) {
	storage := newFakeListingStorage(existingListing())
	photos := &fakePhotoStorage{photos: []domain.Photo{
		{ID: 1, ListingID: 1, URL: "/uploads/properties/a.jpg", IsMain: true},
	}}
	files := &fakeFileStorage{removeErr: errStorageDown}
	uc := NewDeleteListingUseCase(storage, photos, files, &fakePublisher{})

	if err := uc.Execute(context.Background(), 1); err != nil {
		t.Fatalf("file removal failure must not abort deletion: %v", err)
	}
	if len(storage.deletedIDs) != 1 {
		t.Error("listing row must still be deleted")
	}
}

func TestDeleteListingMissing(t *testing.T) {
	uc := NewDeleteListingUseCase(newFakeListingStorage(), &fakePhotoStorage{}, &fakeFileStorage{}, &fakePublisher{})

	if err := uc.Execute(context.Background(), 5); !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestDeletePhotoRemovesFileBestEffort(t *testing.T) {
	photos := &fakePhotoStorage{deleteURL: "/uploads/properties/a.jpg"}
	files := &fakeFileStorage{}
	uc := NewDeletePhotoUseCase(photos, files)

	if err := uc.Execute(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files.removed) != 1 || files.removed[0] != "/uploads/properties/a.jpg" {
		t.Errorf("removed = %v", files.removed)
	}

	t.Run("file failure is swallowed", func(t *testing.T) {
		uc := NewDeletePhotoUseCase(&fakePhotoStorage{deleteURL: "/uploads/properties/b.jpg"}, &fakeFileStorage{removeErr: errStorageDown})
		if err := uc.Execute(context.Background(), 1, 11); err != nil {
			t.Errorf("file removal failure must be swallowed: %v", err)
		}
	})
}

func TestDeletePhotoMissing(t *testing.T) {
	uc := NewDeletePhotoUseCase(&fakePhotoStorage{}, &fakeFileStorage{})

	if err := uc.Execute(context.Background(), 1, 99); !errors.Is(err, domain.ErrPhotoNotFound) {
		t.Errorf("err = %v, want ErrPhotoNotFound", err)
	}
}
