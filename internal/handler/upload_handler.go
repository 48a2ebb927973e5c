package handler

import (
	"io"
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}

func (h *UploadHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	api.POST("/uploads", h.upload, guards.Admin...)
}

// multipartの images フィールド（複数可）
func (h *UploadHandler) upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
	}

	headers := form.File["images"]
	files := make([]usecase.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, usecase.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	urls, err := h.uc.UploadImages(c.Request().Context(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, UploadResponse{URLs: urls})
}
