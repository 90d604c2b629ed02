package usecase

import (
	"context"
	"errors"
	"testing"

	"catalog-service/internal/core/domain"
)

type fakeHasher struct {
	err error
}

func (h *fakeHasher) Hash(content []byte) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "p:0123456789abcdef", nil
}

func TestUploadPhotos(t *testing.T) {
	t.Run("saves files and inserts rows with hashes", func(t *testing.T) {
		storage := newFakeListingStorage(existingListing())
		photos := &fakePhotoStorage{}
		files := &fakeFileStorage{}
		uc := NewUploadPhotosUseCase(storage, photos, files, &fakeHasher{})

		saved, err := uc.Execute(context.Background(), 1, []domain.UploadFile{
			{Name: "a.jpg", Content: []byte("jpeg-bytes")},
			{Name: "b.jpg", Content: []byte("jpeg-bytes")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(saved) != 2 || len(files.saved) != 2 {
			t.Errorf("saved %d photos, %d files", len(saved), len(files.saved))
		}
		if len(photos.inserted) != 2 || photos.inserted[0].PHash == nil {
			t.Errorf("inserted rows missing hash: %+v", photos.inserted)
		}
		if !saved[0].IsMain {
			t.Error("first photo of a fresh listing must be main")
		}
	})

	t.Run("hash failure does not block upload", func(t *testing.T) {
		storage := newFakeListingStorage(existingListing())
		photos := &fakePhotoStorage{}
		uc := NewUploadPhotosUseCase(storage, photos, &fakeFileStorage{}, &fakeHasher{err: errors.New("not an image")})

		saved, err := uc.Execute(context.Background(), 1, []domain.UploadFile{{Name: "a.jpg"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(saved) != 1 || photos.inserted[0].PHash != nil {
			t.Errorf("expected photo without hash, got %+v", photos.inserted)
		}
	})

	t.Run("empty batch is a validation error", func(t *testing.T) {
		uc := NewUploadPhotosUseCase(newFakeListingStorage(), &fakePhotoStorage{}, &fakeFileStorage{}, &fakeHasher{})

		_, err := uc.Execute(context.Background(), 1, nil)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want a validation error", err)
		}
	})

	t.Run("missing listing is checked before writing files", func(t *testing.T) {
		files := &fakeFileStorage{}
		uc := NewUploadPhotosUseCase(newFakeListingStorage(), &fakePhotoStorage{}, files, &fakeHasher{})

		_, err := uc.Execute(context.Background(), 42, []domain.UploadFile{{Name: "a.jpg"}})
		if !errors.Is(err, domain.ErrListingNotFound) {
			t.Fatalf("err = %v, want ErrListingNotFound", err)
		}
		if len(files.saved) != 0 {
			t.Errorf("no files must be written for a missing listing, got %v", files.saved)
		}
	})
}

func TestSetMainPhoto(t *testing.T) {
	photos := &fakePhotoStorage{photos: []domain.Photo{
		{ID: 1, ListingID: 1, URL: "/uploads/properties/a.jpg", IsMain: true},
		{ID: 2, ListingID: 1, URL: "/uploads/properties/b.jpg"},
	}}
	uc := NewSetMainPhotoUseCase(photos)

	photo, err := uc.Execute(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if photo.ID != 2 || !photo.IsMain {
		t.Errorf("got %+v, want photo 2 marked main", photo)
	}

	t.Run("foreign photo is not found", func(t *testing.T) {
		if _, err := uc.Execute(context.Background(), 99, 2); !errors.Is(err, domain.ErrPhotoNotFound) {
			t.Errorf("err = %v, want ErrPhotoNotFound", err)
		}
	})
}
