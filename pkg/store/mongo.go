package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const variantsCollection = "variants"

// MongoStore persists variants in a MongoDB collection, one document per
// trim configuration.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(variantsCollection),
	}, nil
}

// Put inserts or replaces the variant for doc.Config.
func (s *MongoStore) Put(ctx context.Context, doc Document) error {
	filter := bson.M{"config": doc.Config}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("upsert variant %s: %w", doc.Config, err)
	}
	return nil
}

// Get retrieves the variant for a configuration.
func (s *MongoStore) Get(ctx context.Context, config string) (Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"config": config}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("find variant %s: %w", config, err)
	}
	return doc, nil
}

// List returns all stored variants, newest first.
func (s *MongoStore) List(ctx context.Context) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer cur.Close(ctx)

	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}
	return docs, nil
}

// Delete removes a variant.
func (s *MongoStore) Delete(ctx context.Context, config string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"config": config})
	if err != nil {
		return fmt.Errorf("delete variant %s: %w", config, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
