package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Lllllllleong/hoalens/internal/models"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestNewMongoStoreIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("failed index build is logged", func(mt *mtest.T) {
		logs := captureLogs(mt.T)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    86,
			Name:    "IndexKeySpecsConflict",
			Message: "index conflict",
		}))

		s := NewMongoStore(context.Background(), mt.Coll, mt.Coll, time.Second)
		require.NotNil(mt, s)
		assert.Contains(mt, logs.String(), "Failed to create document indexes")
		assert.Contains(mt, logs.String(), "index conflict")

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		id, err := s.InsertDocument(context.Background(), &models.Document{HOAID: "h1"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)
	})

	mt.Run("successful index build is quiet", func(mt *mtest.T) {
		logs := captureLogs(mt.T)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s := NewMongoStore(context.Background(), mt.Coll, mt.Coll, 0)
		require.NotNil(mt, s)
		assert.NotContains(mt, logs.String(), "Failed to create document indexes")
	})

	mt.Run("non-positive limit skips the query", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(context.Background(), mt.Coll, mt.Coll, time.Second)

		docs, err := s.ListDocuments(context.Background(), 0)
		require.NoError(mt, err)
		assert.NotNil(mt, docs)
		assert.Empty(mt, docs)
	})
}
