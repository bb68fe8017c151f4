package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store defines the interface for ledger data access. Writes require a
// transactional scope on ctx; reads run against the pool.
type Store interface {
	// InsertTransaction writes a transfer envelope
	InsertTransaction(ctx context.Context, transaction *Transaction) error

	// InsertEntries writes ledger entries
	InsertEntries(ctx context.Context, entries ...*Entry) error

	// AssetBalance derives the balance of (wallet, asset) by summing the
	// wallet's entries for that asset: credits minus debits
	AssetBalance(ctx context.Context, walletID, assetTypeID uuid.UUID) (decimal.Decimal, error)

	// WalletBalances derives all balances of a wallet, omitting assets whose
	// entries sum to zero, ordered by asset name
	WalletBalances(ctx context.Context, walletID uuid.UUID) ([]AssetBalance, error)

	// ListEntries returns the wallet's entries newest first, enriched with
	// the transaction type/reference and asset symbol
	ListEntries(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]HistoryEntry, error)

	// CountEntries returns the total number of entries for a wallet
	CountEntries(ctx context.Context, walletID uuid.UUID) (int64, error)
}
