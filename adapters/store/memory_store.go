package store

import (
	"context"
	"sync"
	"time"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/ports"
)

// MemoryStore is an in-memory implementation of the IdentityStore interface.
// This is primarily intended for testing purposes.
type MemoryStore struct {
	identities map[core.Address]core.Identity
	mu         sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities: make(map[core.Address]core.Identity),
	}
}

// FindByAddress looks up the record for an address.
func (s *MemoryStore) FindByAddress(ctx context.Context, address core.Address) (*core.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[address]
	if !ok {
		return nil, core.ErrIdentityNotFound
	}
	return &identity, nil
}

// Create inserts a fresh record for an address never seen before.
func (s *MemoryStore) Create(ctx context.Context, identity *core.Identity) (*core.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[identity.Address]; ok {
		return nil, core.ErrIdentityExists
	}

	now := time.Now().UTC()
	stored := *identity
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.identities[identity.Address] = stored

	result := stored
	return &result, nil
}

// RotateNonce swaps the nonce only while it still equals current.
func (s *MemoryStore) RotateNonce(ctx context.Context, address core.Address, current, next string) (*core.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[address]
	if !ok || identity.Nonce != current {
		return nil, core.ErrNonceConsumed
	}

	identity.Nonce = next
	identity.UpdatedAt = time.Now().UTC()
	s.identities[address] = identity

	result := identity
	return &result, nil
}

var _ ports.IdentityStore = (*MemoryStore)(nil)
