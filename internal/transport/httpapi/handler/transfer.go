package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/playforge/walletd/internal/shared/apperr"
	"github.com/playforge/walletd/internal/transfer"
	"github.com/playforge/walletd/internal/transport/httpapi/middleware"
)

// IdempotencyKeyHeader carries the client's retry token; a body field is
// accepted as fallback
const IdempotencyKeyHeader = "Idempotency-Key"

// TransferEngine is the handler's view of the transfer engine
type TransferEngine interface {
	Execute(ctx context.Context, flow transfer.Flow, req transfer.Request) (*transfer.Outcome, error)
}

// TransferHandler serves the three write flows
type TransferHandler struct {
	engine   TransferEngine
	validate *validator.Validate
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(engine TransferEngine) *TransferHandler {
	return &TransferHandler{
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// transferRequest is the write body shared by all three flows
type transferRequest struct {
	AssetTypeID    string         `json:"assetTypeId" validate:"required,uuid"`
	Amount         string         `json:"amount" validate:"required"`
	Reference      string         `json:"reference" validate:"required,max=255"`
	InitiatedBy    string         `json:"initiatedBy" validate:"omitempty,max=255"`
	Metadata       map[string]any `json:"metadata"`
	IdempotencyKey string         `json:"idempotencyKey" validate:"omitempty,max=255"`
}

// TransferResponse is the write envelope: the result document plus whether
// it came from the idempotency memo
type TransferResponse struct {
	Data      *transfer.Result `json:"data"`
	FromCache bool             `json:"fromCache"`
}

// Topup handles POST /api/v1/wallets/{walletID}/topup
func (h *TransferHandler) Topup(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, transfer.FlowTopup)
}

// Bonus handles POST /api/v1/wallets/{walletID}/bonus
func (h *TransferHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, transfer.FlowBonus)
}

// Spend handles POST /api/v1/wallets/{walletID}/spend
func (h *TransferHandler) Spend(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, transfer.FlowSpend)
}

func (h *TransferHandler) execute(w http.ResponseWriter, r *http.Request, flow transfer.Flow) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, "invalid wallet ID")
		return
	}

	var body transferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&body); err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, validationMessage(err))
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		respondErrorMessage(w, apperr.KindBadRequest, "amount must be a decimal number")
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		key = body.IdempotencyKey
	}

	initiatedBy := body.InitiatedBy
	if initiatedBy == "" {
		if actor, ok := middleware.ActorFromContext(r.Context()); ok {
			initiatedBy = actor
		}
	}

	outcome, err := h.engine.Execute(r.Context(), flow, transfer.Request{
		WalletID:       walletID,
		AssetTypeID:    uuid.MustParse(body.AssetTypeID),
		Amount:         amount,
		Reference:      body.Reference,
		InitiatedBy:    initiatedBy,
		Metadata:       body.Metadata,
		IdempotencyKey: key,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	// Fresh commits answer 201; replays of the stored response answer 200
	status := http.StatusCreated
	if outcome.FromCache {
		status = http.StatusOK
	}

	respondJSON(w, status, TransferResponse{
		Data:      outcome.Result,
		FromCache: outcome.FromCache,
	})
}

// validationMessage flattens a validator error into a client-safe message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "uuid":
			return field + " must be a valid UUID"
		case "max":
			return field + " exceeds maximum length"
		}
	}
	return "invalid request"
}
