package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/blob"
)

func TestUploadGuard(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		data        []byte
		contentType string
		event       func(id string) GCSEvent
		wantDeleted bool
		wantPages   int
	}{
		{
			name:        "valid pdf kept",
			data:        readFixture(t),
			contentType: "application/pdf",
			event:       func(id string) GCSEvent { return GCSEvent{Bucket: "uploads", Name: id} },
			wantPages:   3,
		},
		{
			name:        "non pdf content type deleted",
			data:        []byte("hello"),
			contentType: "text/plain",
			event:       func(id string) GCSEvent { return GCSEvent{Bucket: "uploads", Name: id, ContentType: "text/plain"} },
			wantDeleted: true,
		},
		{
			name:        "unparseable pdf deleted",
			data:        []byte("not really a pdf"),
			contentType: "application/pdf",
			event:       func(id string) GCSEvent { return GCSEvent{Bucket: "uploads", Name: id} },
			wantDeleted: true,
		},
		{
			name:        "other bucket ignored",
			data:        []byte("hello"),
			contentType: "text/plain",
			event:       func(id string) GCSEvent { return GCSEvent{Bucket: "elsewhere", Name: id} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := blob.NewMemoryStore("http://blobs")
			id, err := blobs.Put(ctx, bytes.NewReader(tt.data), int64(len(tt.data)), tt.contentType)
			require.NoError(t, err)

			res, err := NewUploadGuard(blobs, "uploads").Process(ctx, tt.event(id))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, res.Deleted)
			assert.Equal(t, tt.wantPages, res.Pages)

			_, statErr := blobs.Stat(ctx, id)
			if tt.wantDeleted {
				assert.ErrorIs(t, statErr, blob.ErrNotFound)
				assert.NotEmpty(t, res.Reason)
			} else {
				assert.NoError(t, statErr)
			}
		})
	}
}

func TestUploadGuardMissingObject(t *testing.T) {
	res, err := NewUploadGuard(blob.NewMemoryStore("http://blobs"), "").Process(context.Background(), GCSEvent{Bucket: "uploads", Name: "gone.pdf"})
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.True(t, strings.HasSuffix(res.StorageID, "gone.pdf"))
}
