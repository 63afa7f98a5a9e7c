package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

// DefaultRecentLimit is how many documents the recent uploads list shows.
const DefaultRecentLimit = 10

// DocumentService serves the read side of HOAs and Documents.
type DocumentService struct {
	docs        store.Store
	blobs       blob.Store
	recentLimit int
}

func NewDocumentService(docs store.Store, blobs blob.Store, recentLimit int) *DocumentService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &DocumentService{docs: docs, blobs: blobs, recentLimit: recentLimit}
}

// StorageURL returns the retrieval URL of a blob, or "" if nothing is stored.
func (s *DocumentService) StorageURL(ctx context.Context, storageID string) (string, error) {
	u, err := s.blobs.URL(ctx, storageID)
	if errors.Is(err, blob.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u, nil
}

// Get returns a document with its PDF URL.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.DocumentView, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.StorageURL(ctx, doc.StorageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get url for document %s: %w", id, err)
	}
	return &models.DocumentView{Document: doc, URL: u}, nil
}

// Meta returns the viewer header for a document. The HOA and URL lookups
// run concurrently.
func (s *DocumentService) Meta(ctx context.Context, id string) (*models.DocumentMeta, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := &models.DocumentMeta{ID: doc.ID, DocName: doc.DocName}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hoa, err := s.docs.GetHOA(gctx, doc.HOAID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		meta.HOA = hoa
		return err
	})
	g.Go(func() error {
		u, err := s.StorageURL(gctx, doc.StorageID)
		meta.URL = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load metadata for document %s: %w", id, err)
	}
	return meta, nil
}

// Recent lists the first documents in upload order.
func (s *DocumentService) Recent(ctx context.Context) ([]*models.Document, error) {
	return s.docs.ListDocuments(ctx, s.recentLimit)
}

// Transcript returns a document's transcript.
func (s *DocumentService) Transcript(ctx context.Context, id string) (string, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Transcript, nil
}

// CreateHOA validates and stores an HOA.
func (s *DocumentService) CreateHOA(ctx context.Context, req models.CreateHOARequest) (string, error) {
	var errs []models.ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, models.ValidationError{Field: "name", Message: "HOA name is required"})
	}
	errs = append(errs, req.Location.Validate()...)
	if len(errs) > 0 {
		return "", ValidationErrors(errs)
	}
	return s.docs.InsertHOA(ctx, &models.HOA{Name: strings.TrimSpace(req.Name), Location: req.Location})
}

func (s *DocumentService) GetHOA(ctx context.Context, id string) (*models.HOA, error) {
	return s.docs.GetHOA(ctx, id)
}

// HOADocuments returns an HOA with the documents that belong to it.
func (s *DocumentService) HOADocuments(ctx context.Context, hoaID string) (*models.HOADocumentsResponse, error) {
	hoa, err := s.docs.GetHOA(ctx, hoaID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocumentsByHOA(ctx, hoaID)
	if err != nil {
		return nil, err
	}
	return &models.HOADocumentsResponse{HOA: hoa, Documents: docs}, nil
}
