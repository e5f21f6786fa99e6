package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/keirara04/labmarket-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

const maxPhotoBytes = 8 << 20

type PhotoHandler struct {
	uploader *storage.Uploader
}

func NewPhotoHandler(uploader *storage.Uploader) *PhotoHandler {
	return &PhotoHandler{uploader: uploader}
}

type PhotoResponse struct {
	URL string `json:"url"`
}

// Upload accepts a multipart "photo" field and returns the public URL to put
// on a listing's imageUrl.
func (h *PhotoHandler) Upload(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "photo storage not configured"))
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo field is required"))
	}
	if fh.Size > maxPhotoBytes {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo too large"))
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo must be an image"))
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to read photo"))
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to read photo"))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	url, err := h.uploader.Upload(c.Request().Context(), data, contentType, ext)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to store photo"))
	}
	return c.JSON(http.StatusCreated, PhotoResponse{URL: url})
}
