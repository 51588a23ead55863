package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxImageSize is the upload limit for place and avatar images (500KB).
const MaxImageSize = 500_000

// MimeExtensions whitelists accepted image content types and maps them to
// file extensions for object keys.
var MimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpg":  "jpg",
	"image/jpeg": "jpeg",
}

// ImageStore persists uploaded images and removes them again. Removal is
// best-effort for callers: a delete that fails after a committed place
// delete is logged, not retried.
type ImageStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (key string, err error)
	Remove(ctx context.Context, key string) error
}

// objectAPI is the slice of the minio client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioImageStore stores images in an S3-compatible bucket.
type MinioImageStore struct {
	bucket string
	client objectAPI
}

// NewMinioImageStore connects to an S3-compatible endpoint.
func NewMinioImageStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioImageStore{bucket: bucket, client: client}, nil
}

// Upload streams an image into the bucket under images/<uuid>.<ext> and
// returns the object key. The content type must be whitelisted.
func (s *MinioImageStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	ext, ok := MimeExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	key := fmt.Sprintf("images/%s.%s", uuid.New().String(), ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return key, nil
}

// Remove deletes an object by key.
func (s *MinioImageStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
