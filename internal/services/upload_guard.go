package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/pdfchunk"
)

// GCSEvent is the payload of a Cloud Storage object finalize event.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// GuardResult reports what the guard did with one object.
type GuardResult struct {
	StorageID string `json:"storageId"`
	Deleted   bool   `json:"deleted"`
	Reason    string `json:"reason,omitempty"`
	Pages     int    `json:"pages,omitempty"`
}

// UploadGuardFunction removes uploads that are not readable PDFs.
type UploadGuardFunction struct {
	blobs  blob.Store
	bucket string
}

func NewUploadGuard(blobs blob.Store, bucket string) *UploadGuardFunction {
	return &UploadGuardFunction{blobs: blobs, bucket: bucket}
}

// Process checks one finalized object. Objects from other buckets and
// objects already gone are skipped.
func (f *UploadGuardFunction) Process(ctx context.Context, e GCSEvent) (*GuardResult, error) {
	logCtx := slog.With("bucket", e.Bucket, "storageId", e.Name)
	res := &GuardResult{StorageID: e.Name}

	if f.bucket != "" && e.Bucket != f.bucket {
		logCtx.Debug("Event for another bucket; skipping.")
		return res, nil
	}

	contentType := e.ContentType
	if contentType == "" {
		info, err := f.blobs.Stat(ctx, e.Name)
		if errors.Is(err, blob.ErrNotFound) {
			logCtx.Info("Object no longer exists; skipping.")
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name, err)
		}
		contentType = info.ContentType
	}

	if !IsPDF(contentType) {
		return f.reject(ctx, logCtx, res, fmt.Sprintf("content type %q is not %s", contentType, PDFContentType))
	}

	rc, err := f.blobs.Open(ctx, e.Name)
	if errors.Is(err, blob.ErrNotFound) {
		logCtx.Info("Object no longer exists; skipping.")
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", e.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", e.Name, err)
	}

	pages, err := pdfchunk.PageCount(data)
	if err != nil {
		return f.reject(ctx, logCtx, res, err.Error())
	}
	res.Pages = pages
	logCtx.Info("Upload accepted.", "pages", pages)
	return res, nil
}

func (f *UploadGuardFunction) reject(ctx context.Context, logCtx *slog.Logger, res *GuardResult, reason string) (*GuardResult, error) {
	res.Reason = reason
	if err := f.blobs.Delete(ctx, res.StorageID); err != nil && !errors.Is(err, blob.ErrNotFound) {
		logCtx.Error("Failed to delete rejected upload", "error", err, "reason", reason)
		return nil, fmt.Errorf("failed to delete %s: %w", res.StorageID, err)
	}
	res.Deleted = true
	logCtx.Warn("Rejected upload deleted.", "reason", reason)
	return res, nil
}
