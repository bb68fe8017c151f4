package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/wallet"
)

// Flow identifies which of the three write operations a transfer performs.
// Every flow moves funds between the caller's wallet and a well-known
// system wallet; the flow decides which side is which.
type Flow string

const (
	FlowTopup Flow = "topup" // Treasury -> user wallet
	FlowBonus Flow = "bonus" // Bonus pool -> user wallet
	FlowSpend Flow = "spend" // User wallet -> revenue
)

// IsValid checks if the flow is known
func (f Flow) IsValid() bool {
	switch f {
	case FlowTopup, FlowBonus, FlowSpend:
		return true
	}
	return false
}

// Type returns the transaction type recorded for this flow
func (f Flow) Type() ledger.TransactionType {
	return ledger.TransactionType(f)
}

// SystemOwnerRef returns the owner reference of the system wallet acting as
// this flow's counterparty
func (f Flow) SystemOwnerRef() string {
	switch f {
	case FlowTopup:
		return wallet.SystemTreasury
	case FlowBonus:
		return wallet.SystemBonusPool
	default:
		return wallet.SystemRevenue
	}
}

// SystemIsSource reports whether the system wallet is the debit side. True
// for inflows (topup, bonus); for spend the user wallet is the source.
func (f Flow) SystemIsSource() bool {
	return f != FlowSpend
}

// Request is one transfer order as the engine receives it
type Request struct {
	WalletID       uuid.UUID       // The user wallet
	AssetTypeID    uuid.UUID       // Asset being moved
	Amount         decimal.Decimal // Strictly positive
	Reference      string          // Business reference, non-empty
	InitiatedBy    string          // Actor; defaults to "system"
	Metadata       map[string]any  // Opaque, stored as given
	IdempotencyKey string          // Client retry token
}

// Result describes a committed (or replayed) transfer
type Result struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Type          string    `json:"type"`
	Reference     string    `json:"reference"`
	AssetTypeID   uuid.UUID `json:"assetTypeId"`
	AssetSymbol   string    `json:"assetSymbol"`
	Amount        string    `json:"amount"`
	FromWalletID  uuid.UUID `json:"fromWalletId"`
	ToWalletID    uuid.UUID `json:"toWalletId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Outcome is the engine's answer: the result document plus whether it was
// served from the idempotency memo instead of a fresh commit
type Outcome struct {
	Result    *Result
	FromCache bool
}
