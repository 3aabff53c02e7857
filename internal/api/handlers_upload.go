// handlers_upload.go - CSV upload operation handlers
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/storage"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store       storage.Store
	recentLimit int
	maxBytes    int64
}

// NewUploadHandler creates a new upload handler instance. maxBytes caps the
// accepted file size; zero or negative disables the cap.
func NewUploadHandler(store storage.Store, recentLimit int, maxBytes int64) UploadHandler {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &UploadHandlerImpl{store: store, recentLimit: recentLimit, maxBytes: maxBytes}
}

// HandleUploadFile accepts a CSV via multipart/form-data and saves it.
// Non-CSV or oversized uploads are rejected at the edge before anything is
// stored.
func (h *UploadHandlerImpl) HandleUploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	mimeType := file.Header.Get("Content-Type")
	if !models.IsCSVType(file.Filename, mimeType) {
		return NewValidationError("file")
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		return NewBadRequestError(
			fmt.Sprintf("file exceeds the %d byte upload limit", h.maxBytes), nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, mimeType, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleGetRecentFiles returns recently uploaded CSV files
func (h *UploadHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	files, err := h.store.List(h.recentLimit)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	if files == nil {
		files = []*models.FileInfo{}
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a single uploaded file
func (h *UploadHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile removes an uploaded file
func (h *UploadHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}
	return c.NoContent(http.StatusNoContent)
}
