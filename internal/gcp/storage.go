package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/Lllllllleong/hoalens/internal/blob"
)

// GCSStore implements blob.Store over one Cloud Storage bucket. Upload and
// retrieval URLs are V4 signed URLs.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	ttl    time.Duration
}

var _ blob.Store = (*GCSStore)(nil)

// NewGCSStore creates a storage client bound to bucketName.
func NewGCSStore(ctx context.Context, bucketName string, ttl time.Duration) (*GCSStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name must be provided")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucketName), ttl: ttl}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) signedURL(objectName, method, contentType string) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().Add(s.ttl),
	}
	if contentType != "" {
		opts.ContentType = contentType
	}
	return s.bucket.SignedURL(objectName, opts)
}

func (s *GCSStore) UploadURL(_ context.Context, contentType string) (string, string, error) {
	id := blob.NewStorageID()
	u, err := s.signedURL(id, http.MethodPut, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign upload url: %w", err)
	}
	return u, id, nil
}

// Put writes r to a new object. The write only succeeds if the object does not already exist.
func (s *GCSStore) Put(ctx context.Context, r io.Reader, _ int64, contentType string) (string, error) {
	id := blob.NewStorageID()
	writer := s.bucket.Object(id).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			slog.Error("storage id collision", "storageId", id)
		}
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return id, nil
}

func (s *GCSStore) URL(ctx context.Context, storageID string) (string, error) {
	if _, err := s.Stat(ctx, storageID); err != nil {
		return "", err
	}
	u, err := s.signedURL(storageID, http.MethodGet, "")
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", storageID, err)
	}
	return u, nil
}

func (s *GCSStore) Open(ctx context.Context, storageID string) (io.ReadCloser, error) {
	rc, err := s.bucket.Object(storageID).NewReader(ctx)
	if err != nil {
		return nil, mapStorageError(storageID, err)
	}
	return rc, nil
}

func (s *GCSStore) Stat(ctx context.Context, storageID string) (blob.Info, error) {
	attrs, err := s.bucket.Object(storageID).Attrs(ctx)
	if err != nil {
		return blob.Info{}, mapStorageError(storageID, err)
	}
	return blob.Info{StorageID: storageID, ContentType: attrs.ContentType, Size: attrs.Size}, nil
}

func (s *GCSStore) Delete(ctx context.Context, storageID string) error {
	if err := s.bucket.Object(storageID).Delete(ctx); err != nil {
		return mapStorageError(storageID, err)
	}
	return nil
}

func mapStorageError(storageID string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return blob.ErrNotFound
	}
	return fmt.Errorf("gcs object %s: %w", storageID, err)
}
