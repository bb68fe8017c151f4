package wallet

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for wallet data access
type Store interface {
	// Create creates a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// GetByID retrieves a wallet by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetByOwnerRef retrieves a wallet by its unique owner reference
	GetByOwnerRef(ctx context.Context, ownerRef string) (*Wallet, error)

	// List retrieves all wallets, system wallets first, then by label
	List(ctx context.Context) ([]*Wallet, error)

	// Lock loads the given wallets under exclusive row locks. Locks are
	// acquired in ascending ID order after deduplication, regardless of the
	// order ids are passed in. Requires a transactional scope on ctx.
	Lock(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*Wallet, error)
}
