package store

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory. It is the default backend
// and preserves the single-user, no-external-infrastructure behavior of the
// original demo.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[Collection][]byte
	versions map[Collection]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[Collection][]byte),
		versions: make(map[Collection]int64),
	}
}

func (s *MemoryStore) Load(_ context.Context, c Collection) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[c]
	if !ok {
		return Snapshot{Data: emptyCollection, Version: 0}, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Snapshot{Data: buf, Version: s.versions[c]}, nil
}

func (s *MemoryStore) Commit(_ context.Context, writes ...Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if s.versions[w.Collection] != w.Version {
			return ErrVersionConflict
		}
	}
	for _, w := range writes {
		buf := make([]byte, len(w.Data))
		copy(buf, w.Data)
		s.data[w.Collection] = buf
		s.versions[w.Collection] = w.Version + 1
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
