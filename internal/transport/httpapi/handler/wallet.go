package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/shared/apperr"
	"github.com/playforge/walletd/internal/wallet"
)

// WalletService is the handler's view of the wallet read model
type WalletService interface {
	List(ctx context.Context) ([]*wallet.Wallet, error)
}

// LedgerReadService serves derived balances and paginated history
type LedgerReadService interface {
	GetBalance(ctx context.Context, walletID uuid.UUID) (*ledger.WalletBalances, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) (*ledger.Page, error)
}

// WalletHandler handles wallet read requests
type WalletHandler struct {
	wallets WalletService
	reads   LedgerReadService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(wallets WalletService, reads LedgerReadService) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		reads:   reads,
	}
}

// ListWallets handles GET /api/v1/wallets
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallets.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if wallets == nil {
		wallets = []*wallet.Wallet{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"wallets": wallets})
}

// GetBalance handles GET /api/v1/wallets/{walletID}/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, "invalid wallet ID")
		return
	}

	balances, err := h.reads.GetBalance(r.Context(), walletID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			respondErrorMessage(w, apperr.KindNotFound, "wallet not found")
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balances)
}

// GetTransactions handles GET /api/v1/wallets/{walletID}/transactions
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, "invalid wallet ID")
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	page, err := h.reads.ListTransactions(r.Context(), walletID, limit, offset)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			respondErrorMessage(w, apperr.KindNotFound, "wallet not found")
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// queryInt parses an integer query parameter, falling back on garbage. The
// read model clamps ranges itself.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
