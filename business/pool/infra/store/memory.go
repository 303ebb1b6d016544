// Package store provides LedgerStore implementations for pool snapshots.
package store

import (
	"context"
	"sync"

	"github.com/mglvn/swappool/business/pool/domain"
)

// MemoryStore keeps the latest snapshot in process memory. Useful for tests
// and for running without persistence configured.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the stored snapshot.
func (s *MemoryStore) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Load returns the latest snapshot, or nil when none was saved.
func (s *MemoryStore) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, nil
}
