package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds MinIO connection configuration.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	URLExpiry time.Duration
}

// MinIOStore is a Store over an S3-compatible MinIO bucket. URLs are presigned.
type MinIOStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIOStore creates the client and ensures the bucket exists.
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStore{client: mc, bucket: cfg.Bucket, expiry: cfg.URLExpiry}
	if s.expiry <= 0 {
		s.expiry = 15 * time.Minute
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(cctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(cctx, s.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func (s *MinIOStore) UploadURL(ctx context.Context, _ string) (string, string, error) {
	id := NewStorageID()
	u, err := s.client.PresignedPutObject(ctx, s.bucket, id, s.expiry)
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), id, nil
}

func (s *MinIOStore) Put(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	id := NewStorageID()
	if _, err := s.client.PutObject(ctx, s.bucket, id, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put %s: %w", id, err)
	}
	return id, nil
}

func (s *MinIOStore) URL(ctx context.Context, storageID string) (string, error) {
	if _, err := s.Stat(ctx, storageID); err != nil {
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, storageID, s.expiry, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", storageID, err)
	}
	return u.String(), nil
}

func (s *MinIOStore) Open(ctx context.Context, storageID string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storageID, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinIOError(storageID, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, mapMinIOError(storageID, err)
	}
	return obj, nil
}

func (s *MinIOStore) Stat(ctx context.Context, storageID string) (Info, error) {
	info, err := s.client.StatObject(ctx, s.bucket, storageID, minio.StatObjectOptions{})
	if err != nil {
		return Info{}, mapMinIOError(storageID, err)
	}
	return Info{StorageID: storageID, ContentType: info.ContentType, Size: info.Size}, nil
}

func (s *MinIOStore) Delete(ctx context.Context, storageID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{}); err != nil {
		return mapMinIOError(storageID, err)
	}
	return nil
}

func mapMinIOError(storageID string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("minio %s: %w", storageID, err)
}
