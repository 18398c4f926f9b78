package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"laptopshop-svc/store"
)

// maxCommitRetries bounds how many times a mutation re-runs after losing an
// optimistic-concurrency race.
const maxCommitRetries = 3

// loadCollection deserializes one collection and returns the version it was
// read at, to be passed back on commit.
func loadCollection[T any](ctx context.Context, s store.Store, c store.Collection) ([]T, int64, error) {
	snap, err := s.Load(ctx, c)
	if err != nil {
		return nil, 0, err
	}

	var items []T
	if err := json.Unmarshal(snap.Data, &items); err != nil {
		return nil, 0, fmt.Errorf("corrupt %s collection: %w", c, err)
	}
	return items, snap.Version, nil
}

func collectionWrite[T any](c store.Collection, items []T, version int64) (store.Write, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return store.Write{}, fmt.Errorf("failed to marshal %s collection: %w", c, err)
	}
	return store.Write{Collection: c, Data: data, Version: version}, nil
}

// withRetry re-runs fn while it loses version races, up to maxCommitRetries
// attempts. fn must re-read every collection it writes on each attempt.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		err = fn(ctx)
		if !errors.Is(err, store.ErrVersionConflict) {
			return err
		}
	}
	return err
}
