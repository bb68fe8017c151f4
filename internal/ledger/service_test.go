package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/wallet"
)

type fakeStore struct {
	balances []ledger.AssetBalance
	entries  []ledger.HistoryEntry
	total    int64

	gotLimit  int
	gotOffset int
}

func (f *fakeStore) InsertTransaction(context.Context, *ledger.Transaction) error { return nil }
func (f *fakeStore) InsertEntries(context.Context, ...*ledger.Entry) error        { return nil }

func (f *fakeStore) AssetBalance(context.Context, uuid.UUID, uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeStore) WalletBalances(context.Context, uuid.UUID) ([]ledger.AssetBalance, error) {
	return f.balances, nil
}

func (f *fakeStore) ListEntries(_ context.Context, _ uuid.UUID, limit, offset int) ([]ledger.HistoryEntry, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.entries, nil
}

func (f *fakeStore) CountEntries(context.Context, uuid.UUID) (int64, error) {
	return f.total, nil
}

type fakeWalletReader struct {
	wallet *wallet.Wallet
}

func (f *fakeWalletReader) GetByID(_ context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	if f.wallet == nil || f.wallet.ID != id {
		return nil, wallet.ErrNotFound
	}
	return f.wallet, nil
}

func newReadService(store *fakeStore) (*ledger.Service, *wallet.Wallet) {
	w := &wallet.Wallet{ID: uuid.New(), OwnerRef: "user:alice", OwnerType: wallet.OwnerTypeUser, Label: "Alice", Active: true}
	return ledger.NewService(store, &fakeWalletReader{wallet: w}), w
}

func TestGetBalance(t *testing.T) {
	t.Run("assembles wallet and balances", func(t *testing.T) {
		store := &fakeStore{balances: []ledger.AssetBalance{
			{AssetTypeID: uuid.New(), AssetName: "gold", AssetSymbol: "GLD", Balance: decimal.RequireFromString("400.25")},
		}}
		svc, w := newReadService(store)

		got, err := svc.GetBalance(context.Background(), w.ID)
		require.NoError(t, err)
		assert.Equal(t, w.ID, got.WalletID)
		assert.Equal(t, "Alice", got.Label)
		require.Len(t, got.Balances, 1)
		assert.Equal(t, "gold", got.Balances[0].AssetName)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		svc, _ := newReadService(&fakeStore{})

		_, err := svc.GetBalance(context.Background(), uuid.New())
		assert.ErrorIs(t, err, wallet.ErrNotFound)
	})
}

func TestListTransactions_Clamping(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, ledger.DefaultPageLimit, 0},
		{"negative limit", -5, 0, ledger.DefaultPageLimit, 0},
		{"in range", 50, 40, 50, 40},
		{"over max", 1000, 0, ledger.MaxPageLimit, 0},
		{"at max", ledger.MaxPageLimit, 0, ledger.MaxPageLimit, 0},
		{"negative offset", 10, -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc, w := newReadService(store)

			page, err := svc.ListTransactions(context.Background(), w.ID, tt.limit, tt.offset)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, store.gotLimit)
			assert.Equal(t, tt.wantOffset, store.gotOffset)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}

func TestListTransactions_Page(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeStore{
		total: 42,
		entries: []ledger.HistoryEntry{
			{EntryID: uuid.New(), Type: ledger.TypeTopup, Reference: "PAY-2", Direction: ledger.Credit, Amount: decimal.RequireFromString("10"), CreatedAt: now},
			{EntryID: uuid.New(), Type: ledger.TypeTopup, Reference: "PAY-1", Direction: ledger.Credit, Amount: decimal.RequireFromString("10"), CreatedAt: now.Add(-time.Minute)},
		},
	}
	svc, w := newReadService(store)

	page, err := svc.ListTransactions(context.Background(), w.ID, 20, 0)
	require.NoError(t, err)

	assert.Equal(t, w.ID, page.WalletID)
	assert.Equal(t, w.Label, page.Label)
	assert.Equal(t, int64(42), page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "PAY-2", page.Entries[0].Reference)
}

func TestEntryHelpers(t *testing.T) {
	amount := decimal.RequireFromString("12.5")
	debit, credit := ledger.NewPair(uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, time.Now().UTC())

	assert.True(t, debit.IsDebit())
	assert.True(t, credit.IsCredit())
	assert.True(t, debit.SignedAmount().Equal(amount.Neg()))
	assert.True(t, credit.SignedAmount().Equal(amount))
	assert.True(t, debit.SignedAmount().Add(credit.SignedAmount()).IsZero(),
		"a pair sums to zero by construction")

	assert.NoError(t, debit.Validate())
	assert.NoError(t, credit.Validate())
}
