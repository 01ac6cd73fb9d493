// Package store provides the record store the market engine persists into: a
// flat keyspace of (collection, id) → JSON document with change notifications.
package store

import "context"

// Collection names used by the market engine.
const (
	Coins      = "coins"
	Bots       = "bots"
	Orders     = "orders"
	Trades     = "trades"
	Portfolios = "portfolios"
)

// ChangeFunc is invoked after a successful Set or Delete. data is nil on
// delete. Callbacks must not block; errors inside a callback are isolated
// from the caller and from other callbacks.
type ChangeFunc func(collection, id string, data []byte)

// Store is a key-value record store keyed by (collection, id).
type Store interface {
	// Get returns the raw record and whether it exists.
	Get(ctx context.Context, collection, id string) ([]byte, bool, error)
	// Set writes the record, creating or replacing it.
	Set(ctx context.Context, collection, id string, data []byte) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Keys lists all ids in a collection.
	Keys(ctx context.Context, collection string) ([]string, error)
	// OnChange registers a change callback. Remove unregisters it.
	OnChange(fn ChangeFunc) (remove func())
	// Close releases backend resources.
	Close() error
}
