package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/playforge/walletd/internal/asset"
	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/wallet"
)

// The engine names its collaborators as narrow interfaces so it can be
// composed at startup and faked in tests.

// AssetStore resolves asset types
type AssetStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*asset.AssetType, error)
}

// WalletStore resolves and locks wallets
type WalletStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	GetByOwnerRef(ctx context.Context, ownerRef string) (*wallet.Wallet, error)

	// Lock acquires exclusive row locks on the distinct wallet set in
	// ascending ID order. Requires a transactional scope on ctx.
	Lock(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error)
}

// LedgerStore appends the double-entry pair and derives in-scope balances
type LedgerStore interface {
	InsertTransaction(ctx context.Context, transaction *ledger.Transaction) error
	InsertEntries(ctx context.Context, entries ...*ledger.Entry) error
	AssetBalance(ctx context.Context, walletID, assetTypeID uuid.UUID) (decimal.Decimal, error)
}

// TxRunner runs a function inside one atomic storage transaction. Store
// calls made with the context it passes to fn join that transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
