package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-process maps. It backs package tests
// and local development runs that have no MongoDB available.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func copyDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) collection(name string) map[string]Document {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]Document)
		s.collections[name] = col
	}
	return col
}

// Get retrieves a single document by id.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{ID: id, Data: copyDoc(doc)}, nil
}

// All retrieves every document in a collection.
func (s *MemoryStore) All(ctx context.Context, collection string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshots []Snapshot
	for id, doc := range s.collections[collection] {
		snapshots = append(snapshots, Snapshot{ID: id, Data: copyDoc(doc)})
	}
	return snapshots, nil
}

// Query retrieves all documents whose field equals value.
func (s *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshots []Snapshot
	for id, doc := range s.collections[collection] {
		if doc[field] == value {
			snapshots = append(snapshots, Snapshot{ID: id, Data: copyDoc(doc)})
		}
	}
	return snapshots, nil
}

// Add stores a document under a generated id.
func (s *MemoryStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.collection(collection)[id] = copyDoc(data)
	return id, nil
}

// Set stores a document under a chosen id, overwriting any existing one.
func (s *MemoryStore) Set(ctx context.Context, collection, id string, data Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[id] = copyDoc(data)
	return nil
}

// Update applies a partial update to an existing document.
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Increment atomically adds delta to a numeric field of a document.
func (s *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	doc[field] = AsInt(doc[field]) + delta
	return nil
}

// Delete removes a document by id.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// Batch starts a write batch against the memory store.
func (s *MemoryStore) Batch() WriteBatch {
	return &memoryBatch{store: s}
}

type batchOp struct {
	update     bool
	collection string
	id         string
	fields     Document
}

type memoryBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memoryBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, batchOp{update: true, collection: collection, id: id, fields: copyDoc(fields)})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

// Commit applies all queued writes under one lock. Updates targeting absent
// documents fail the whole batch before anything is applied; deletes of
// absent documents are a no-op.
func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		if !op.update {
			continue
		}
		if _, ok := b.store.collections[op.collection][op.id]; !ok {
			return fmt.Errorf("batch update %s/%s: %w", op.collection, op.id, ErrNotFound)
		}
	}

	for _, op := range b.ops {
		if op.update {
			doc := b.store.collections[op.collection][op.id]
			for k, v := range op.fields {
				doc[k] = v
			}
			continue
		}
		delete(b.store.collections[op.collection], op.id)
	}
	return nil
}
