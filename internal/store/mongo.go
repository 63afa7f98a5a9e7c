package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Lllllllleong/hoalens/internal/models"
)

// MongoStore keeps HOAs and Documents in two MongoDB collections keyed by a
// string _id.
type MongoStore struct {
	client *mongo.Client
	hoas   *mongo.Collection
	docs   *mongo.Collection
}

// ConnectMongo dials uri and returns a store over database db.
func ConnectMongo(ctx context.Context, uri, db, hoasCollection, docsCollection string, timeout time.Duration) (*MongoStore, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	database := client.Database(db)
	s := NewMongoStore(ctx, database.Collection(hoasCollection), database.Collection(docsCollection), timeout)
	s.client = client
	return s, nil
}

// defaultMongoTimeout bounds index creation when no timeout is given.
const defaultMongoTimeout = 10 * time.Second

// NewMongoStore wraps existing collections and ensures the lookup indexes.
// A failed index build is logged; queries still work without the indexes.
func NewMongoStore(ctx context.Context, hoas, docs *mongo.Collection, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "hoaId", Value: 1}, {Key: "uploadedAt", Value: 1}}},
		{Keys: bson.D{{Key: "uploadedAt", Value: 1}}},
	}
	if _, err := docs.Indexes().CreateMany(cctx, idx); err != nil {
		slog.Warn("Failed to create document indexes", "collection", docs.Name(), "error", err)
	}
	return &MongoStore{hoas: hoas, docs: docs}
}

// Close disconnects a client opened by ConnectMongo.
func (m *MongoStore) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) InsertHOA(ctx context.Context, hoa *models.HOA) (string, error) {
	h := *hoa
	h.ID = uuid.NewString()
	StampHOA(&h)
	if _, err := m.hoas.InsertOne(ctx, &h); err != nil {
		return "", fmt.Errorf("insert hoa: %w", err)
	}
	return h.ID, nil
}

func (m *MongoStore) GetHOA(ctx context.Context, id string) (*models.HOA, error) {
	var h models.HOA
	if err := m.hoas.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hoa %s: %w", id, err)
	}
	return &h, nil
}

func (m *MongoStore) InsertDocument(ctx context.Context, doc *models.Document) (string, error) {
	d := *doc
	d.ID = uuid.NewString()
	StampDocument(&d)
	if _, err := m.docs.InsertOne(ctx, &d); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return d.ID, nil
}

func (m *MongoStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	if err := m.docs.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &d, nil
}

func (m *MongoStore) SaveSummary(ctx context.Context, id, summary string) error {
	set := bson.M{"summary": summary, "updatedAt": NowMillis()}
	res, err := m.docs.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("save summary %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) ListDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	// SetLimit(0) means unlimited in mongo
	if limit <= 0 {
		return []*models.Document{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}}).SetLimit(int64(limit))
	return m.find(ctx, bson.M{}, opts)
}

func (m *MongoStore) ListDocumentsByHOA(ctx context.Context, hoaID string) ([]*models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	return m.find(ctx, bson.M{"hoaId": hoaID}, opts)
}

func (m *MongoStore) GetTranscript(ctx context.Context, id string) (string, error) {
	var d struct {
		Transcript string `bson:"transcript"`
	}
	opts := options.FindOne().SetProjection(bson.M{"transcript": 1})
	if err := m.docs.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("get transcript %s: %w", id, err)
	}
	return d.Transcript, nil
}

func (m *MongoStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Document, error) {
	cur, err := m.docs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)
	out := []*models.Document{}
	for cur.Next(ctx) {
		var d models.Document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}
