package usecases_port

import "context"

type DeletePhotoUseCase interface {
	Execute(ctx context.Context, listingID, photoID int64) error
}
