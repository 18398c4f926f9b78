// Package store persists whole collections as JSON arrays under one key per
// collection. There are no partial updates and no indexes: every access
// serializes or deserializes the full collection. Writes are optimistic: a
// commit names the version it read, and any mismatch fails the whole commit,
// which is what makes multi-collection transitions (checkout in particular)
// atomic without locks.
package store

import (
	"context"
	"errors"
)

type Collection string

const (
	Inventory Collection = "inventory"
	Cart      Collection = "cart"
	Orders    Collection = "orders"
	Users     Collection = "users"
	Wishlist  Collection = "wishlist"
	Payments  Collection = "payments"
)

var (
	// ErrVersionConflict means another writer committed the collection after
	// this writer loaded it. Callers re-read and retry.
	ErrVersionConflict = errors.New("collection version conflict")
)

// Snapshot is a collection's serialized state plus the version it was read
// at. A collection that was never written loads as an empty JSON array at
// version 0.
type Snapshot struct {
	Data    []byte
	Version int64
}

// Write replaces one collection, guarded by the version the caller loaded.
type Write struct {
	Collection Collection
	Data       []byte
	Version    int64
}

// Store is the single seam between the services and persistence. All
// collection access goes through it; nothing reads the backing medium
// directly.
type Store interface {
	Load(ctx context.Context, c Collection) (Snapshot, error)
	// Commit applies every write or none: if any expected version is stale
	// the entire commit fails with ErrVersionConflict.
	Commit(ctx context.Context, writes ...Write) error
	Close() error
}

var emptyCollection = []byte("[]")
