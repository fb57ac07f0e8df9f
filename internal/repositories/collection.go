package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is a typed wrapper around one mongo collection. The concrete
// repositories embed it and add their own lookups on top.
type Collection[T any] struct {
	coll *mongo.Collection
}

// NewCollection creates a typed wrapper for the named collection
func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name)}
}

// Name returns the underlying collection name
func (c *Collection[T]) Name() string {
	return c.coll.Name()
}

// InsertOne inserts a single document and returns its generated id
func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type in %s", c.coll.Name())
	}
	return id, nil
}

// InsertMany inserts a batch of documents
func (c *Collection[T]) InsertMany(ctx context.Context, docs []*T) error {
	if len(docs) == 0 {
		return nil
	}

	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		batch[i] = doc
	}

	if _, err := c.coll.InsertMany(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert %d documents into %s: %w", len(docs), c.coll.Name(), err)
	}
	return nil
}

// UpsertMany replaces or inserts each document, keyed by the filter keyFn
// derives from it. Re-upserting the same key overwrites, never appends.
func (c *Collection[T]) UpsertMany(ctx context.Context, docs []*T, keyFn func(*T) bson.M) error {
	opts := options.Update().SetUpsert(true)
	for _, doc := range docs {
		if _, err := c.coll.UpdateOne(ctx, keyFn(doc), bson.M{"$set": doc}, opts); err != nil {
			return fmt.Errorf("failed to upsert into %s: %w", c.coll.Name(), err)
		}
	}
	return nil
}

// FindOne decodes the first document matching filter; mongo.ErrNoDocuments
// passes through so callers can distinguish absence from failure.
func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Find decodes all documents matching filter
func (c *Collection[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}

	var docs []*T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", c.coll.Name(), err)
	}
	return docs, nil
}

// UpdateOne applies update to the first document matching filter
func (c *Collection[T]) UpdateOne(ctx context.Context, filter, update bson.M, opts ...*options.UpdateOptions) error {
	if _, err := c.coll.UpdateOne(ctx, filter, update, opts...); err != nil {
		return fmt.Errorf("failed to update %s: %w", c.coll.Name(), err)
	}
	return nil
}

// DeleteMany removes all documents matching filter and reports the count
func (c *Collection[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
	}
	return result.DeletedCount, nil
}
