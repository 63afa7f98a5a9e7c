package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

func seedDocument(t *testing.T, docs store.Store, blobs *blob.MemoryStore) (docID, hoaID, storageID string) {
	t.Helper()
	ctx := context.Background()
	storageID, err := blobs.Put(ctx, strings.NewReader("%PDF"), 4, PDFContentType)
	require.NoError(t, err)
	hoaID, err = docs.InsertHOA(ctx, &models.HOA{Name: "Willow Creek", Location: models.Location{City: "Austin", State: "TX", Zipcode: "78701"}})
	require.NoError(t, err)
	docID, err = docs.InsertDocument(ctx, &models.Document{StorageID: storageID, HOAID: hoaID, DocName: "Bylaws", Transcript: "t"})
	require.NoError(t, err)
	return docID, hoaID, storageID
}

func TestDocumentServiceGetAndMeta(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	blobs := blob.NewMemoryStore("http://blobs")
	docID, hoaID, storageID := seedDocument(t, docs, blobs)
	s := NewDocumentService(docs, blobs, 0)

	view, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "http://blobs/"+storageID, view.URL)
	assert.Equal(t, "Bylaws", view.DocName)

	meta, err := s.Meta(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, docID, meta.ID)
	require.NotNil(t, meta.HOA)
	assert.Equal(t, hoaID, meta.HOA.ID)
	assert.Equal(t, view.URL, meta.URL)

	_, err = s.Meta(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentServiceStorageURLMissing(t *testing.T) {
	s := NewDocumentService(store.NewMemoryStore(), blob.NewMemoryStore("http://blobs"), 0)
	u, err := s.StorageURL(context.Background(), "missing.pdf")
	require.NoError(t, err)
	assert.Equal(t, "", u)
}

func TestDocumentServiceRecentHonoursLimit(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	for i := 0; i < 12; i++ {
		_, err := docs.InsertDocument(ctx, &models.Document{})
		require.NoError(t, err)
	}
	list, err := NewDocumentService(docs, blob.NewMemoryStore(""), 0).Recent(ctx)
	require.NoError(t, err)
	assert.Len(t, list, DefaultRecentLimit)
}

func TestDocumentServiceHOADocuments(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	blobs := blob.NewMemoryStore("http://blobs")
	docID, hoaID, _ := seedDocument(t, docs, blobs)
	seedDocument(t, docs, blobs)

	res, err := NewDocumentService(docs, blobs, 0).HOADocuments(ctx, hoaID)
	require.NoError(t, err)
	assert.Equal(t, hoaID, res.HOA.ID)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, docID, res.Documents[0].ID)
}

func TestDocumentServiceCreateHOA(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentService(store.NewMemoryStore(), blob.NewMemoryStore(""), 0)

	id, err := s.CreateHOA(ctx, models.CreateHOARequest{Name: "Oak Hills", Location: models.Location{City: "Reno", State: "NV", Zipcode: "89501"}})
	require.NoError(t, err)
	hoa, err := s.GetHOA(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Oak Hills", hoa.Name)

	_, err = s.CreateHOA(ctx, models.CreateHOARequest{Location: models.Location{City: "Reno", State: "NV", Zipcode: "8950"}})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}
