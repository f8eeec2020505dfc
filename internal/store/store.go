package store

import "context"

// Document is a single schemaless record, keyed by field name.
type Document map[string]any

// Snapshot is a document read back from the store together with its id.
type Snapshot struct {
	ID   string
	Data Document
}

// Store defines the interface for document store access. All handlers and
// background reactions receive a Store at construction; nothing in the
// application talks to the database through a global handle.
type Store interface {
	// Get retrieves a single document by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	// All retrieves every document in a collection.
	All(ctx context.Context, collection string) ([]Snapshot, error)
	// Query retrieves all documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error)
	// Add stores a document under a generated id and returns the id.
	Add(ctx context.Context, collection string, data Document) (string, error)
	// Set stores a document under a chosen id, overwriting any existing one.
	Set(ctx context.Context, collection, id string, data Document) error
	// Update applies a partial update to an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Increment atomically adds delta to a numeric field of a document.
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	// Delete removes a document by id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error
	// Batch starts a write batch. Queued writes commit all-or-nothing.
	Batch() WriteBatch
}

// WriteBatch accumulates writes that are applied atomically on Commit.
type WriteBatch interface {
	Update(collection, id string, fields Document)
	Delete(collection, id string)
	// Commit applies every queued write as a single atomic unit. If any
	// write cannot be applied, none are.
	Commit(ctx context.Context) error
}

// AsInt coerces a numeric document field to int64. Drivers decode numbers
// variously as int, int32, int64 or float64 depending on the wire encoding.
func AsInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// AsString coerces a document field to string, returning "" for absent or
// non-string values.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsBool coerces a document field to bool.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}
