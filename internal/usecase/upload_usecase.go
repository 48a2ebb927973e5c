package usecase

import (
	"context"
	"io"
	"net/http"
	"strings"

	"storefront/internal/logger"
)

// アップロード1件分
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

const maxUploadSize = 10 << 20

type UploadUsecase struct {
	store ImageStore
	log   *logger.Logger
}

// storeがnilならアップロードは503
func NewUploadUsecase(store ImageStore, log *logger.Logger) *UploadUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadUsecase{store: store, log: log}
}

func (u *UploadUsecase) UploadImages(ctx context.Context, files []UploadFile) ([]string, error) {
	if u.store == nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "image storage not configured")
	}
	if len(files) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "images required")
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, NewHTTPError(http.StatusBadRequest, "only image files are allowed")
		}
		if f.Size <= 0 || f.Size > maxUploadSize {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid file size")
		}
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := u.uploadOne(ctx, f)
		if err != nil {
			u.log.Error(ctx, "upload: put object", err)
			return nil, NewHTTPError(http.StatusInternalServerError, "upload failed")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (u *UploadUsecase) uploadOne(ctx context.Context, f UploadFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return u.store.Upload(ctx, f.Filename, f.ContentType, rc, f.Size)
}
