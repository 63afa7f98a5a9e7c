// Package blob defines storage for uploaded PDF bytes, addressed by an opaque
// storage id, with in-memory and MinIO implementations. The Cloud Storage
// implementation lives in internal/gcp.
package blob

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("blob not found")
	// ErrAlreadyWritten is returned when an upload targets a storage id that
	// already holds bytes.
	ErrAlreadyWritten = errors.New("blob already written")
)

// Info describes a stored blob.
type Info struct {
	StorageID   string
	ContentType string
	Size        int64
}

// Store holds blobs and hands out URLs for them.
type Store interface {
	// UploadURL reserves a new storage id and returns a URL the client can PUT the bytes to.
	UploadURL(ctx context.Context, contentType string) (uploadURL, storageID string, err error)
	// Put stores r under a new storage id.
	Put(ctx context.Context, r io.Reader, size int64, contentType string) (storageID string, err error)
	// URL returns a retrieval URL, or ErrNotFound if nothing is stored under storageID.
	URL(ctx context.Context, storageID string) (string, error)
	Open(ctx context.Context, storageID string) (io.ReadCloser, error)
	Stat(ctx context.Context, storageID string) (Info, error)
	Delete(ctx context.Context, storageID string) error
}

// NewStorageID returns a fresh object key.
func NewStorageID() string {
	return uuid.NewString() + ".pdf"
}
