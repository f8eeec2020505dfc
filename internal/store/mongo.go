package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store for MongoDB. Document ids are stored as string
// _id values so that deterministic ids (a notification keyed by its like id)
// work the same way as generated ones.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore creates a new MongoStore against the named database.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func toDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}

func decodeSnapshot(raw bson.M) Snapshot {
	id, _ := raw["_id"].(string)
	return Snapshot{ID: id, Data: toDocument(raw)}
}

// Get retrieves a single document by id.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return decodeSnapshot(raw), nil
}

// All retrieves every document in a collection.
func (s *MongoStore) All(ctx context.Context, collection string) ([]Snapshot, error) {
	return s.find(ctx, collection, bson.M{})
}

// Query retrieves all documents whose field equals value.
func (s *MongoStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	return s.find(ctx, collection, bson.M{field: value})
}

func (s *MongoStore) find(ctx context.Context, collection string, filter bson.M) ([]Snapshot, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err = cursor.All(ctx, &raws); err != nil {
		return nil, err
	}
	snapshots := make([]Snapshot, 0, len(raws))
	for _, raw := range raws {
		snapshots = append(snapshots, decodeSnapshot(raw))
	}
	return snapshots, nil
}

// Add stores a document under a generated id.
func (s *MongoStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Set stores a document under a chosen id, overwriting any existing one.
func (s *MongoStore) Set(ctx context.Context, collection, id string, data Document) error {
	raw := bson.M{"_id": id}
	for k, v := range data {
		raw[k] = v
	}
	_, err := s.db.Collection(collection).ReplaceOne(
		ctx, bson.M{"_id": id}, raw, options.Replace().SetUpsert(true))
	return err
}

// Update applies a partial update to an existing document.
func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	res, err := s.db.Collection(collection).UpdateOne(
		ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Increment atomically adds delta to a numeric field of a document.
func (s *MongoStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	res, err := s.db.Collection(collection).UpdateOne(
		ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by id.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Batch starts a write batch backed by a multi-document transaction.
func (s *MongoStore) Batch() WriteBatch {
	return &mongoBatch{store: s}
}

type mongoBatch struct {
	store *MongoStore
	ops   []batchOp
}

func (b *mongoBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, batchOp{update: true, collection: collection, id: id, fields: copyDoc(fields)})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

// Commit applies every queued write inside one session transaction. A failed
// update aborts the transaction, so either all writes land or none do.
// Deleting an absent document inside the batch is a no-op.
func (b *mongoBatch) Commit(ctx context.Context) error {
	session, err := b.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("start batch session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		for _, op := range b.ops {
			col := b.store.db.Collection(op.collection)
			if op.update {
				res, err := col.UpdateOne(sc, bson.M{"_id": op.id}, bson.M{"$set": bson.M(op.fields)})
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, fmt.Errorf("batch update %s/%s: %w", op.collection, op.id, ErrNotFound)
				}
				continue
			}
			if _, err := col.DeleteOne(sc, bson.M{"_id": op.id}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}
