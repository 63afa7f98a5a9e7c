// Package store defines the document store used for HOA and Document records
// and provides in-memory and MongoDB implementations. The Firestore
// implementation lives in internal/gcp.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Lllllllleong/hoalens/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists HOAs and Documents. Writes are last-write-wins.
type Store interface {
	InsertHOA(ctx context.Context, hoa *models.HOA) (string, error)
	GetHOA(ctx context.Context, id string) (*models.HOA, error)

	InsertDocument(ctx context.Context, doc *models.Document) (string, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	SaveSummary(ctx context.Context, id, summary string) error
	// ListDocuments returns at most limit documents, oldest upload first.
	ListDocuments(ctx context.Context, limit int) ([]*models.Document, error)
	// ListDocumentsByHOA returns every document of one HOA, oldest upload first.
	ListDocumentsByHOA(ctx context.Context, hoaID string) ([]*models.Document, error)
	// GetTranscript returns "" and no error when the document does not exist.
	GetTranscript(ctx context.Context, id string) (string, error)
}

// NowMillis is the timestamp format stored on records.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// StampHOA fills in creation timestamps that the caller left unset.
func StampHOA(h *models.HOA) {
	now := NowMillis()
	if h.DateCreated == 0 {
		h.DateCreated = now
	}
	if h.DateUpdated == 0 {
		h.DateUpdated = h.DateCreated
	}
}

// StampDocument fills in timestamps and the initial status.
func StampDocument(d *models.Document) {
	now := NowMillis()
	if d.UploadedAt == 0 {
		d.UploadedAt = now
	}
	if d.UpdatedAt == 0 {
		d.UpdatedAt = d.UploadedAt
	}
	if d.Status == "" {
		d.Status = models.StatusPending
	}
}
