package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/shared/apperr"
	"github.com/playforge/walletd/internal/transport/httpapi/handler"
	"github.com/playforge/walletd/internal/wallet"
)

type fakeWalletService struct {
	wallets []*wallet.Wallet
	err     error
}

func (f *fakeWalletService) List(context.Context) ([]*wallet.Wallet, error) {
	return f.wallets, f.err
}

type fakeLedgerReads struct {
	balances *ledger.WalletBalances
	page     *ledger.Page
	err      error

	gotLimit  int
	gotOffset int
}

func (f *fakeLedgerReads) GetBalance(_ context.Context, _ uuid.UUID) (*ledger.WalletBalances, error) {
	return f.balances, f.err
}

func (f *fakeLedgerReads) ListTransactions(_ context.Context, _ uuid.UUID, limit, offset int) (*ledger.Page, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.page, f.err
}

func newWalletRouter(wallets *fakeWalletService, reads *fakeLedgerReads) *chi.Mux {
	h := handler.NewWalletHandler(wallets, reads)
	r := chi.NewRouter()
	r.Get("/api/v1/wallets", h.ListWallets)
	r.Get("/api/v1/wallets/{walletID}/balance", h.GetBalance)
	r.Get("/api/v1/wallets/{walletID}/transactions", h.GetTransactions)
	return r
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListWallets(t *testing.T) {
	t.Run("returns wallets", func(t *testing.T) {
		wallets := &fakeWalletService{wallets: []*wallet.Wallet{
			{ID: uuid.New(), OwnerRef: wallet.SystemTreasury, OwnerType: wallet.OwnerTypeSystem, Label: "Treasury", Active: true},
			{ID: uuid.New(), OwnerRef: "user:alice", OwnerType: wallet.OwnerTypeUser, Label: "Alice", Active: true},
		}}
		router := newWalletRouter(wallets, &fakeLedgerReads{})

		rec := doGet(t, router, "/api/v1/wallets")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Wallets []*wallet.Wallet `json:"wallets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Wallets, 2)
		assert.Equal(t, wallet.SystemTreasury, resp.Wallets[0].OwnerRef)

		var doc struct {
			Wallets []map[string]any `json:"wallets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc.Wallets[0], "ownerRef")
		assert.Contains(t, doc.Wallets[0], "ownerType")
		assert.Contains(t, doc.Wallets[0], "createdAt")
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		router := newWalletRouter(&fakeWalletService{}, &fakeLedgerReads{})

		rec := doGet(t, router, "/api/v1/wallets")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"wallets":[]}`, rec.Body.String())
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("returns derived balances", func(t *testing.T) {
		walletID := uuid.New()
		reads := &fakeLedgerReads{balances: &ledger.WalletBalances{
			WalletID: walletID,
			Label:    "Alice",
			Balances: []ledger.AssetBalance{
				{AssetTypeID: uuid.New(), AssetName: "gold", AssetSymbol: "GLD", Balance: decimal.RequireFromString("400.25")},
			},
		}}
		router := newWalletRouter(&fakeWalletService{}, reads)

		rec := doGet(t, router, "/api/v1/wallets/"+walletID.String()+"/balance")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ledger.WalletBalances
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, walletID, resp.WalletID)
		require.Len(t, resp.Balances, 1)
		assert.True(t, resp.Balances[0].Balance.Equal(decimal.RequireFromString("400.25")))

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc, "walletId")
		assert.Contains(t, doc, "label")
		row := doc["balances"].([]any)[0].(map[string]any)
		assert.Contains(t, row, "assetTypeId")
		assert.Contains(t, row, "name")
		assert.Contains(t, row, "symbol")
		assert.Contains(t, row, "balance")
	})

	t.Run("unknown wallet is 404", func(t *testing.T) {
		router := newWalletRouter(&fakeWalletService{}, &fakeLedgerReads{err: wallet.ErrNotFound})

		rec := doGet(t, router, "/api/v1/wallets/"+uuid.NewString()+"/balance")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, string(apperr.KindNotFound), resp.Error.Code)
	})

	t.Run("invalid wallet ID is 400", func(t *testing.T) {
		router := newWalletRouter(&fakeWalletService{}, &fakeLedgerReads{})

		rec := doGet(t, router, "/api/v1/wallets/nope/balance")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTransactions(t *testing.T) {
	walletID := uuid.New()

	t.Run("passes pagination through", func(t *testing.T) {
		reads := &fakeLedgerReads{page: &ledger.Page{WalletID: walletID, Label: "Alice", Limit: 5, Offset: 10}}
		router := newWalletRouter(&fakeWalletService{}, reads)

		rec := doGet(t, router, "/api/v1/wallets/"+walletID.String()+"/transactions?limit=5&offset=10")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, reads.gotLimit)
		assert.Equal(t, 10, reads.gotOffset)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc, "walletId")
		assert.Equal(t, "Alice", doc["label"])
		assert.Contains(t, doc, "total")
		assert.Contains(t, doc, "limit")
		assert.Contains(t, doc, "offset")
		assert.Contains(t, doc, "entries")
	})

	t.Run("garbage pagination falls back to zero", func(t *testing.T) {
		reads := &fakeLedgerReads{page: &ledger.Page{WalletID: walletID}}
		router := newWalletRouter(&fakeWalletService{}, reads)

		rec := doGet(t, router, "/api/v1/wallets/"+walletID.String()+"/transactions?limit=abc&offset=-")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, reads.gotLimit, "the read model applies its own default")
		assert.Equal(t, 0, reads.gotOffset)
	})

	t.Run("unknown wallet is 404", func(t *testing.T) {
		router := newWalletRouter(&fakeWalletService{}, &fakeLedgerReads{err: wallet.ErrNotFound})

		rec := doGet(t, router, "/api/v1/wallets/"+uuid.NewString()+"/transactions")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
