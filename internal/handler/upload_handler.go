package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/celianh/marketplace-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// 10 MiB cap per attachment.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	uploader storage.Uploader
}

func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload streams a multipart file to object storage and returns its public
// URL, for use as a message attachment or article image.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file field is required"))
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file too large"))
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable file"))
	}
	defer src.Close()

	objectPath := fmt.Sprintf("attachments/%s%s", uuid.New().String(), filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.uploader.Upload(c.Request().Context(), objectPath, contentType, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "upload failed"))
	}
	return c.JSON(http.StatusCreated, UploadResponse{URL: url})
}
