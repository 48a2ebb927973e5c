package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"storefront/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket      string
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.key, f.contentType, f.body = bucket, key, opts.ContentType, string(b)
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/imgs", publicBaseURL(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "imgs"}))
	assert.Equal(t, "https://s3.example.com/imgs", publicBaseURL(config.MinIOConfig{Endpoint: "s3.example.com", Bucket: "imgs", Secure: true}))
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.MinIOConfig{PublicURL: "https://cdn.example.com/"}))
}

func TestImageStore_Upload(t *testing.T) {
	put := &fakePutter{}
	s := &ImageStore{client: put, bucket: "imgs", baseURL: "https://cdn.example.com"}

	url, err := s.Upload(context.Background(), "Photo.PNG", "image/png", strings.NewReader("data"), 4)
	require.NoError(t, err)

	assert.Equal(t, "imgs", put.bucket)
	assert.True(t, strings.HasPrefix(put.key, "images/"))
	assert.True(t, strings.HasSuffix(put.key, ".png"))
	assert.Equal(t, "image/png", put.contentType)
	assert.Equal(t, "data", put.body)
	assert.Equal(t, "https://cdn.example.com/"+put.key, url)
}

func TestImageStore_UploadError(t *testing.T) {
	s := &ImageStore{client: &fakePutter{err: errors.New("denied")}, bucket: "imgs", baseURL: "x"}
	_, err := s.Upload(context.Background(), "a.png", "image/png", strings.NewReader("d"), 1)
	assert.Error(t, err)
}
