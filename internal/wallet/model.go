package wallet

import (
	"time"

	"github.com/google/uuid"
)

// OwnerType distinguishes user wallets from platform-operated system wallets
type OwnerType string

const (
	OwnerTypeUser   OwnerType = "user"   // Held by an end user
	OwnerTypeSystem OwnerType = "system" // Operated by the platform
)

// IsValid checks if the owner type is valid
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerTypeUser, OwnerTypeSystem:
		return true
	}
	return false
}

// Well-known owner references of the system wallets. They are seeded at
// install time and act as the counterparty of every flow.
const (
	SystemTreasury  = "system:treasury"   // Source of top-ups
	SystemBonusPool = "system:bonus_pool" // Source of promotional grants
	SystemRevenue   = "system:revenue"    // Sink of spends
)

// Wallet represents a container of funds for exactly one owner. A wallet is
// multi-asset: balances exist per (wallet, asset type) pair and are always
// derived from ledger entries, never stored.
type Wallet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerRef  string    `json:"ownerRef" db:"owner_ref"`
	OwnerType OwnerType `json:"ownerType" db:"owner_type"`
	Label     string    `json:"label" db:"label"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ValidateCreate validates wallet fields for creation
func (w *Wallet) ValidateCreate() error {
	if w.OwnerRef == "" {
		return ErrMissingOwnerRef
	}

	if !w.OwnerType.IsValid() {
		return ErrInvalidOwnerType
	}

	if w.Label == "" {
		return ErrMissingLabel
	}

	if len(w.Label) > 100 {
		return ErrLabelTooLong
	}

	return nil
}

// IsSystem returns true for platform-operated wallets
func (w *Wallet) IsSystem() bool {
	return w.OwnerType == OwnerTypeSystem
}

// MayOverdraw reports whether the wallet may carry a negative balance.
// Only system wallets may: the treasury mints by going negative.
func (w *Wallet) MayOverdraw() bool {
	return w.OwnerType == OwnerTypeSystem
}
