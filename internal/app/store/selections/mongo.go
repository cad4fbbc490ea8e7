// internal/app/store/selections/mongo.go
package selections

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoBackend stores documents in the selections collection, one document
// per (visitor_id, key).
type MongoBackend struct {
	c      *mongo.Collection
	cookie visitorCookie
	log    *zap.Logger
}

// NewMongoBackend creates a MongoBackend over db.
func NewMongoBackend(db *mongo.Database, cookieName, domain string, secure bool, logger *zap.Logger) *MongoBackend {
	return &MongoBackend{
		c:      db.Collection("selections"),
		cookie: newVisitorCookie(cookieName, domain, secure),
		log:    orNop(logger),
	}
}

// Name implements Backend.
func (b *MongoBackend) Name() string { return "mongo" }

// EnsureIndexes creates the lookup and retention indexes.
func (b *MongoBackend) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "visitor_id", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetName("idx_selections_visitor_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("idx_selections_updated"),
		},
	}
	_, err := b.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Find returns the stored value, or ErrNotFound.
func (b *MongoBackend) Find(ctx context.Context, visitorID, key string) ([]byte, error) {
	var doc models.StoredSelection
	err := b.c.FindOne(ctx, bson.M{"visitor_id": visitorID, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

// Put upserts the value for (visitorID, key).
func (b *MongoBackend) Put(ctx context.Context, visitorID, key string, raw []byte) error {
	filter := bson.M{"visitor_id": visitorID, "key": key}
	update := bson.M{
		"$set": bson.M{
			"value":      raw,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"visitor_id": visitorID,
			"key":        key,
		},
	}
	_, err := b.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteStale removes documents not written since before.
func (b *MongoBackend) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := b.c.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Bind implements Backend.
func (b *MongoBackend) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &mongoStore{b: b, ctx: r.Context(), v: bindVisitor(b.cookie, w, r)}
}

type mongoStore struct {
	b   *MongoBackend
	ctx context.Context
	v   *boundVisitor
}

func (s *mongoStore) Get(key string) ([]byte, bool, error) {
	if s.v.id == "" {
		return nil, false, nil
	}
	ctx, cancel := timeouts.WithTimeout(s.ctx, timeouts.Short(), s.b.log, "selection read")
	defer cancel()

	raw, err := s.b.Find(ctx, s.v.id, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *mongoStore) Set(key string, raw []byte) error {
	id := s.v.ensure()
	ctx, cancel := timeouts.WithTimeout(s.ctx, timeouts.Short(), s.b.log, "selection write")
	defer cancel()
	return s.b.Put(ctx, id, key, raw)
}
