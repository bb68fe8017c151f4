package idempotency

import (
	"context"
)

// Store defines the interface for idempotency record persistence. The store
// is the single authority: Insert inside the transfer's transactional scope
// is what enforces exactly-once.
type Store interface {
	// Lookup returns the live record for a key, or nil when the key is
	// absent or its record has expired
	Lookup(ctx context.Context, key string) (*Record, error)

	// Insert writes the record within the current transactional scope.
	// Returns (nil, nil) when the row was written, taking over an expired
	// row if one held the key. When a live row already holds the key the
	// row is left untouched and returned, so the caller can resolve the
	// race: same hash means replay the stored response, different hash
	// means conflict.
	Insert(ctx context.Context, rec *Record) (*Record, error)

	// DeleteExpired removes up to limit expired rows, returning the count
	DeleteExpired(ctx context.Context, limit int) (int64, error)
}

// Cache fronts Lookup on the fast path. Optional: correctness never depends
// on it, it only short-circuits obvious retries before locks are taken.
type Cache interface {
	// Get returns the cached record, or nil on a miss
	Get(ctx context.Context, key string) (*Record, error)

	// Set stores the record until its expiry
	Set(ctx context.Context, rec *Record) error
}
