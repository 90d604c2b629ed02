package usecase

import (
	"context"
	"errors"
	"time"

	"catalog-service/internal/core/domain"
)

// Фейки портов для тестов use case'ов.

type createdCall struct {
	draft domain.ListingDraft
	slug  string
}

type updateCall struct {
	id      int64
	patch   domain.ListingPatch
	newSlug *string
}

type setStatusCall struct {
	id         int64
	status     string
	archivedAt *time.Time
}

type fakeListingStorage struct {
	listings map[int64]*domain.Listing
	slugIDs  map[string]int64

	created     []createdCall
	updates     []updateCall
	statusCalls []setStatusCall
	deletedIDs  []int64

	err error
}

func newFakeListingStorage(listings ...*domain.Listing) *fakeListingStorage {
	s := &fakeListingStorage{
		listings: make(map[int64]*domain.Listing),
		slugIDs:  make(map[string]int64),
	}
	for _, l := range listings {
		s.listings[l.ID] = l
		s.slugIDs[l.Slug] = l.ID
	}
	return s
}

func (s *fakeListingStorage) Create(_ context.Context, draft domain.ListingDraft, slug string) (*domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, createdCall{draft: draft, slug: slug})
	listing := &domain.Listing{
		ID:        int64(len(s.created)),
		Slug:      slug,
		Status:    draft.Status,
		Address:   draft.Address,
		Latitude:  draft.Latitude,
		Longitude: draft.Longitude,
		Geohash:   draft.Geohash,
	}
	s.listings[listing.ID] = listing
	return listing, nil
}

func (s *fakeListingStorage) Update(_ context.Context, id int64, patch domain.ListingPatch, newSlug *string) (*domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updates = append(s.updates, updateCall{id: id, patch: patch, newSlug: newSlug})
	listing, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	updated := *listing
	if newSlug != nil {
		updated.Slug = *newSlug
	}
	return &updated, nil
}

func (s *fakeListingStorage) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func (s *fakeListingStorage) GetDetailsByID(_ context.Context, id int64) (*domain.ListingDetails, error) {
	listing, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &domain.ListingDetails{Listing: *listing}, nil
}

func (s *fakeListingStorage) GetDetailsBySlug(_ context.Context, slug string) (*domain.ListingDetails, error) {
	id, ok := s.slugIDs[slug]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return s.GetDetailsByID(context.Background(), id)
}

func (s *fakeListingStorage) IDBySlug(_ context.Context, slug string) (int64, error) {
	if id, ok := s.slugIDs[slug]; ok {
		return id, nil
	}
	return 0, domain.ErrListingNotFound
}

func (s *fakeListingStorage) SetStatus(_ context.Context, id int64, status string, archivedAt *time.Time) (*domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.statusCalls = append(s.statusCalls, setStatusCall{id: id, status: status, archivedAt: archivedAt})
	listing, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	updated := *listing
	updated.Status = status
	if archivedAt != nil {
		updated.ArchivedAt = archivedAt
	}
	return &updated, nil
}

func (s *fakeListingStorage) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	s.deletedIDs = append(s.deletedIDs, id)
	delete(s.listings, id)
	return nil
}

func (s *fakeListingStorage) FindWithFilters(_ context.Context, _ domain.ListingFilters, _ bool, limit, offset int) (*domain.PaginatedListings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PaginatedListings{
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}, nil
}

type fakeGeocoder struct {
	result domain.GeocodeResult
	calls  []string
}

func (g *fakeGeocoder) Resolve(_ context.Context, address string) domain.GeocodeResult {
	g.calls = append(g.calls, address)
	return g.result
}

func resolvedGeocoder(lat, lng float64) *fakeGeocoder {
	return &fakeGeocoder{result: domain.GeocodeResult{
		Latitude:  &lat,
		Longitude: &lng,
		Precision: domain.PrecisionExact,
	}}
}

func failedGeocoder(reason string) *fakeGeocoder {
	return &fakeGeocoder{result: domain.GeocodeResult{Precision: reason}}
}

type fakePublisher struct {
	events []domain.ListingEvent
	err    error
}

func (p *fakePublisher) PublishListingEvent(_ context.Context, event domain.ListingEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakePhotoStorage struct {
	photos   []domain.Photo
	inserted []domain.NewPhoto
	mainSet  []int64
	deleted  []int64

	deleteURL string
	err       error
}

func (s *fakePhotoStorage) InsertBatch(_ context.Context, listingID int64, photos []domain.NewPhoto) ([]domain.Photo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.inserted = append(s.inserted, photos...)
	flags := domain.AssignMainFlags(len(s.photos) > 0, len(photos))
	result := make([]domain.Photo, len(photos))
	for i, p := range photos {
		result[i] = domain.Photo{
			ID:        int64(len(s.photos) + i + 1),
			ListingID: listingID,
			URL:       p.URL,
			IsMain:    flags[i],
		}
	}
	s.photos = append(s.photos, result...)
	return result, nil
}

func (s *fakePhotoStorage) ListByListing(_ context.Context, listingID int64) ([]domain.Photo, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []domain.Photo
	for _, p := range s.photos {
		if p.ListingID == listingID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *fakePhotoStorage) SetMain(_ context.Context, listingID, photoID int64) (*domain.Photo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mainSet = append(s.mainSet, photoID)
	for _, p := range s.photos {
		if p.ID == photoID && p.ListingID == listingID {
			p.IsMain = true
			return &p, nil
		}
	}
	return nil, domain.ErrPhotoNotFound
}

func (s *fakePhotoStorage) Delete(_ context.Context, listingID, photoID int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.deleted = append(s.deleted, photoID)
	if s.deleteURL != "" {
		return s.deleteURL, nil
	}
	return "", domain.ErrPhotoNotFound
}

type fakeFileStorage struct {
	saved   []string
	removed []string

	saveErr   error
	removeErr error
}

func (s *fakeFileStorage) Save(_ context.Context, file domain.UploadFile) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/uploads/properties/" + file.Name
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeFileStorage) Remove(_ context.Context, url string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, url)
	return nil
}

type fakeUploader struct {
	photos []domain.Photo
	err    error
	calls  int
}

func (u *fakeUploader) Execute(_ context.Context, listingID int64, files []domain.UploadFile) ([]domain.Photo, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	result := make([]domain.Photo, len(files))
	for i, f := range files {
		result[i] = domain.Photo{ID: int64(i + 1), ListingID: listingID, URL: "/uploads/properties/" + f.Name, IsMain: i == 0}
	}
	u.photos = result
	return result, nil
}

var errStorageDown = errors.New("storage is down")
