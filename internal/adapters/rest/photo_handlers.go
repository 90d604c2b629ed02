package rest

import (
	"net/http"
	"strconv"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type PhotoHandler struct {
	uploadPhotosUC usecases_port.UploadPhotosUseCase
	setMainPhotoUC usecases_port.SetMainPhotoUseCase
	deletePhotoUC  usecases_port.DeletePhotoUseCase
}

func NewPhotoHandler(
	uploadPhotosUC usecases_port.UploadPhotosUseCase,
	setMainPhotoUC usecases_port.SetMainPhotoUseCase,
	deletePhotoUC usecases_port.DeletePhotoUseCase,
) *PhotoHandler {
	return &PhotoHandler{
		uploadPhotosUC: uploadPhotosUC,
		setMainPhotoUC: setMainPhotoUC,
		deletePhotoUC:  deletePhotoUC,
	}
}

// UploadPhotos обрабатывает POST /api/v1/listings/{listingID}/images
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := listingIDFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "UploadPhotos",
		"listing_id": listingID,
	})

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		handlerLogger.Warn("Malformed multipart form", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Malformed multipart form")
		return
	}

	files, err := readUploadFiles(r)
	if err != nil {
		handlerLogger.Warn("Failed to read uploaded files", port.Fields{"error": err.Error()})
		WriteDomainError(w, err)
		return
	}
	if len(files) == 0 {
		WriteDomainError(w, domain.NewValidationError("images", "at least one file is required"))
		return
	}

	photos, err := h.uploadPhotosUC.Execute(r.Context(), listingID, files)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Photos uploaded", port.Fields{"count": len(photos)})
	RespondWithJSON(w, http.StatusCreated, toPhotoResponses(photos))
}

// SetMainPhoto обрабатывает PUT /api/v1/listings/{listingID}/images/{imageID}/main
func (h *PhotoHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, photoID, err := photoIDsFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing or image ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "SetMainPhoto",
		"listing_id": listingID,
		"photo_id":   photoID,
	})

	photo, err := h.setMainPhotoUC.Execute(r.Context(), listingID, photoID)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Main photo changed", nil)
	RespondWithJSON(w, http.StatusOK, toPhotoResponses([]domain.Photo{*photo})[0])
}

// DeletePhoto обрабатывает DELETE /api/v1/listings/{listingID}/images/{imageID}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, photoID, err := photoIDsFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing or image ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "DeletePhoto",
		"listing_id": listingID,
		"photo_id":   photoID,
	})

	if err := h.deletePhotoUC.Execute(r.Context(), listingID, photoID); err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Photo deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}

func photoIDsFromURL(r *http.Request) (listingID, photoID int64, err error) {
	listingID, err = listingIDFromURL(r)
	if err != nil {
		return 0, 0, err
	}
	photoID, err = strconv.ParseInt(chi.URLParam(r, "imageID"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return listingID, photoID, nil
}
