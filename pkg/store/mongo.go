package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/blockgrid/pkg/observability"
)

// MongoConfig holds connection settings for the Mongo-backed store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore persists sessions as documents in a MongoDB collection,
// keyed by session ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
// Database defaults to "blockgrid" and collection to "sessions".
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "blockgrid"
	}
	if cfg.Collection == "" {
		cfg.Collection = "sessions"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a session by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	var sess Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnLoad(ctx, "mongo", id, ErrNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		observability.Store().OnLoad(ctx, "mongo", id, err)
		return nil, err
	}
	observability.Store().OnLoad(ctx, "mongo", id, nil)
	return &sess, nil
}

// Put upserts a session document.
func (s *MongoStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidID
	}
	sess.UpdatedAt = time.Now().UTC()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess,
		options.Replace().SetUpsert(true))
	observability.Store().OnSave(ctx, "mongo", sess.ID, 0, err)
	return err
}

// Delete removes a session document. Unknown IDs return ErrNotFound.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all stored session IDs.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
