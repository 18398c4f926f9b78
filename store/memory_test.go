package store

import (
	"context"
	"testing"
)

func TestMemoryStoreEmptyLoad(t *testing.T) {
	s := NewMemoryStore()

	snap, err := s.Load(context.Background(), Inventory)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(snap.Data) != "[]" {
		t.Errorf("expected empty collection, got %s", snap.Data)
	}
	if snap.Version != 0 {
		t.Errorf("expected version 0, got %d", snap.Version)
	}
}

func TestMemoryStoreCommitBumpsVersion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Commit(ctx, Write{Collection: Inventory, Data: []byte(`[{"id":"p1"}]`), Version: 0}); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	snap, err := s.Load(ctx, Inventory)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(snap.Data) != `[{"id":"p1"}]` {
		t.Errorf("unexpected data: %s", snap.Data)
	}
	if snap.Version != 1 {
		t.Errorf("expected version 1, got %d", snap.Version)
	}
}

func TestMemoryStoreStaleVersionRejected(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Commit(ctx, Write{Collection: Inventory, Data: []byte(`["a"]`), Version: 0}); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	err := s.Commit(ctx, Write{Collection: Inventory, Data: []byte(`["b"]`), Version: 0})
	if err != ErrVersionConflict {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}

	snap, _ := s.Load(ctx, Inventory)
	if string(snap.Data) != `["a"]` {
		t.Errorf("stale commit must not overwrite, got %s", snap.Data)
	}
}

func TestMemoryStoreMultiWriteAllOrNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Commit(ctx, Write{Collection: Orders, Data: []byte(`["existing"]`), Version: 0}); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	// Inventory write is valid, orders write carries a stale version; neither
	// may land.
	err := s.Commit(ctx,
		Write{Collection: Inventory, Data: []byte(`["new"]`), Version: 0},
		Write{Collection: Orders, Data: []byte(`["clobbered"]`), Version: 0},
	)
	if err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	inv, _ := s.Load(ctx, Inventory)
	if string(inv.Data) != "[]" {
		t.Errorf("inventory write from failed commit leaked: %s", inv.Data)
	}
	orders, _ := s.Load(ctx, Orders)
	if string(orders.Data) != `["existing"]` {
		t.Errorf("orders overwritten by failed commit: %s", orders.Data)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Commit(ctx, Write{Collection: Cart, Data: []byte(`["x"]`), Version: 0}); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	snap, _ := s.Load(ctx, Cart)
	snap.Data[2] = 'y'

	again, _ := s.Load(ctx, Cart)
	if string(again.Data) != `["x"]` {
		t.Errorf("caller mutation leaked into store: %s", again.Data)
	}
}
