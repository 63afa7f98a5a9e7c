package gcp

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreStore implements store.Store over two Firestore collections.
// Document ids are generated by Firestore.
type FirestoreStore struct {
	client *firestore.Client
	hoas   *firestore.CollectionRef
	docs   *firestore.CollectionRef
}

var _ store.Store = (*FirestoreStore)(nil)

func NewFirestoreStore(client *firestore.Client, hoasCollection, docsCollection string) *FirestoreStore {
	return &FirestoreStore{
		client: client,
		hoas:   client.Collection(hoasCollection),
		docs:   client.Collection(docsCollection),
	}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) InsertHOA(ctx context.Context, hoa *models.HOA) (string, error) {
	h := *hoa
	store.StampHOA(&h)
	ref, _, err := s.hoas.Add(ctx, h)
	if err != nil {
		return "", fmt.Errorf("failed to insert hoa: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetHOA(ctx context.Context, id string) (*models.HOA, error) {
	snap, err := s.hoas.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError("hoa", id, err)
	}
	var h models.HOA
	if err := snap.DataTo(&h); err != nil {
		return nil, fmt.Errorf("failed to decode hoa %s: %w", id, err)
	}
	h.ID = snap.Ref.ID
	return &h, nil
}

func (s *FirestoreStore) InsertDocument(ctx context.Context, doc *models.Document) (string, error) {
	d := *doc
	store.StampDocument(&d)
	ref, _, err := s.docs.Add(ctx, d)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	snap, err := s.docs.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError("document", id, err)
	}
	return decodeDocument(snap)
}

func (s *FirestoreStore) SaveSummary(ctx context.Context, id, summary string) error {
	_, err := s.docs.Doc(id).Update(ctx, []firestore.Update{
		{Path: "summary", Value: summary},
		{Path: "updatedAt", Value: store.NowMillis()},
	})
	if err != nil {
		return mapFirestoreError("document", id, err)
	}
	return nil
}

func (s *FirestoreStore) ListDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		return []*models.Document{}, nil
	}
	q := s.docs.OrderBy("uploadedAt", firestore.Asc).Limit(limit)
	return collectDocuments(q.Documents(ctx))
}

func (s *FirestoreStore) ListDocumentsByHOA(ctx context.Context, hoaID string) ([]*models.Document, error) {
	// Sorted here so the query needs no composite index.
	docs, err := collectDocuments(s.docs.Where("hoaId", "==", hoaID).Documents(ctx))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(docs, func(a, b *models.Document) int {
		return cmp.Compare(a.UploadedAt, b.UploadedAt)
	})
	return docs, nil
}

func (s *FirestoreStore) GetTranscript(ctx context.Context, id string) (string, error) {
	snap, err := s.docs.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		slog.Warn("transcript requested for missing document", "documentId", id)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", id, err)
	}
	v, err := snap.DataAt("transcript")
	if err != nil {
		return "", nil
	}
	transcript, _ := v.(string)
	return transcript, nil
}

func collectDocuments(iter *firestore.DocumentIterator) ([]*models.Document, error) {
	defer iter.Stop()
	out := []*models.Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		d, err := decodeDocument(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeDocument(snap *firestore.DocumentSnapshot) (*models.Document, error) {
	var d models.Document
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", snap.Ref.ID, err)
	}
	d.ID = snap.Ref.ID
	return &d, nil
}

func mapFirestoreError(kind, id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	return fmt.Errorf("failed to access %s %s: %w", kind, id, err)
}
