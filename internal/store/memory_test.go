package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/models"
)

func TestMemoryStoreHOA(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.InsertHOA(ctx, &models.HOA{Name: "Willow Creek", Location: models.Location{City: "Austin", State: "TX", Zipcode: "78701"}})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	h, err := s.GetHOA(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, h.ID)
	assert.Equal(t, "Willow Creek", h.Name)
	assert.NotZero(t, h.DateCreated)
	assert.Equal(t, h.DateCreated, h.DateUpdated)

	_, err = s.GetHOA(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.InsertDocument(ctx, &models.Document{StorageID: "blob-1", HOAID: "hoa-1", DocName: "Bylaws", Transcript: "\n-\nhello"})
	require.NoError(t, err)

	d, err := s.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, d.Status)
	assert.False(t, d.HasSummary())
	assert.NotZero(t, d.UploadedAt)

	require.NoError(t, s.SaveSummary(ctx, id, "short summary"))
	d, err = s.GetDocument(ctx, id)
	require.NoError(t, err)
	require.True(t, d.HasSummary())
	assert.Equal(t, "short summary", *d.Summary)

	assert.ErrorIs(t, s.SaveSummary(ctx, "missing", "x"), ErrNotFound)

	tr, err := s.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "\n-\nhello", tr)

	tr, err = s.GetTranscript(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", tr)
}

func TestMemoryStoreListing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var ids []string
	for i, hoa := range []string{"a", "b", "a", "c", "a"} {
		id, err := s.InsertDocument(ctx, &models.Document{HOAID: hoa, UploadedAt: int64(i + 1)})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := s.ListDocuments(ctx, 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, d := range docs {
		assert.Equal(t, ids[i], d.ID)
	}

	docs, err = s.ListDocuments(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 5)

	byHOA, err := s.ListDocumentsByHOA(ctx, "a")
	require.NoError(t, err)
	require.Len(t, byHOA, 3)
	assert.Equal(t, []string{ids[0], ids[2], ids[4]}, []string{byHOA[0].ID, byHOA[1].ID, byHOA[2].ID})

	none, err := s.ListDocumentsByHOA(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.InsertDocument(ctx, &models.Document{DocName: "Bylaws"})
	require.NoError(t, err)

	d, err := s.GetDocument(ctx, id)
	require.NoError(t, err)
	d.DocName = "changed"

	again, err := s.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bylaws", again.DocName)
}

func TestMemoryStoreListDocumentsNonPositiveLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.InsertDocument(ctx, &models.Document{HOAID: "a"})
	require.NoError(t, err)

	for _, limit := range []int{0, -1} {
		docs, err := s.ListDocuments(ctx, limit)
		require.NoError(t, err, "limit %d", limit)
		assert.NotNil(t, docs)
		assert.Empty(t, docs, "limit %d", limit)
	}
}
