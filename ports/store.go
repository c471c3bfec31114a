package ports

import (
	"context"

	"github.com/Sandipan3/hackoasis-backend/core"
)

// IdentityStore persists one record per wallet address. Implementations must
// express every mutation as a single atomic operation; rotation in particular
// is a compare-and-set on the consumed nonce.
type IdentityStore interface {
	// FindByAddress returns the record for an address, or core.ErrIdentityNotFound.
	FindByAddress(ctx context.Context, address core.Address) (*core.Identity, error)

	// Create inserts a new record. Returns core.ErrIdentityExists if the
	// address already has one.
	Create(ctx context.Context, identity *core.Identity) (*core.Identity, error)

	// RotateNonce atomically replaces the nonce, but only while it still
	// equals current. Returns core.ErrNonceConsumed when a concurrent login
	// rotated it first.
	RotateNonce(ctx context.Context, address core.Address, current, next string) (*core.Identity, error)
}
