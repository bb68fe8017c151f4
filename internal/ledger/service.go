package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/playforge/walletd/internal/wallet"
)

// History pagination bounds. Requests outside the window are clamped, not
// rejected.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// WalletReader resolves wallets for the read model
type WalletReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
}

// Service provides the ledger read model: derived balances and transaction
// history. It never opens transactions and never locks rows.
type Service struct {
	store   Store
	wallets WalletReader
}

// NewService creates a new ledger read service
func NewService(store Store, wallets WalletReader) *Service {
	return &Service{
		store:   store,
		wallets: wallets,
	}
}

// GetBalance returns the wallet's derived balances, one row per asset with a
// non-zero entry sum
func (s *Service) GetBalance(ctx context.Context, walletID uuid.UUID) (*WalletBalances, error) {
	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	balances, err := s.store.WalletBalances(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive balances: %w", err)
	}

	return &WalletBalances{
		WalletID: w.ID,
		Label:    w.Label,
		Balances: balances,
	}, nil
}

// ListTransactions returns one page of the wallet's ledger history, newest
// first. limit is clamped to [1, MaxPageLimit] with DefaultPageLimit for
// unset values; negative offsets become 0.
func (s *Service) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountEntries(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	entries, err := s.store.ListEntries(ctx, w.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return &Page{
		WalletID: w.ID,
		Label:    w.Label,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Entries:  entries,
	}, nil
}
