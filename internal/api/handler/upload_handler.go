package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// UploadHandler handles poster PDF uploads.
type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

type uploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Upload handles POST /api/upload-poster. Multipart form with a `file`
// field and an optional `email` used in the storage key.
//
// @Summary      Upload a poster PDF
// @Tags         posters
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Poster PDF (max 15MB)"
// @Param        email  formData  string  false  "Registrant email"
// @Success      200    {object}  uploadResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/upload-poster [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload file. Please try again."})
	}
	defer src.Close()

	result, err := h.service.StorePoster(c.Request().Context(), ports.PosterUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Email:       c.FormValue("email"),
		Content:     src,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload file. Please try again."})
	}

	return c.JSON(http.StatusOK, uploadResponse{
		URL:      result.URL,
		Filename: result.Filename,
		Size:     result.Size,
	})
}
