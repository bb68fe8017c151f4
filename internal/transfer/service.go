package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/playforge/walletd/internal/asset"
	"github.com/playforge/walletd/internal/idempotency"
	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/shared/apperr"
	"github.com/playforge/walletd/internal/wallet"
	"github.com/playforge/walletd/pkg/logger"
)

// DefaultInitiator is recorded when the caller does not identify an actor
const DefaultInitiator = "system"

// Retry policy defaults for transient storage conflicts
const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 100 * time.Millisecond
)

// errReplayStored aborts the transactional scope when a concurrent writer
// with the same key and hash committed first; the loser rolls back its own
// work and replays the winner's stored response.
var errReplayStored = errors.New("replay stored idempotency response")

// Engine is the single code path that mutates balances. Every write flow
// funnels through Execute, which enforces validation, canonical lock
// ordering, the post-lock funds check, and atomic commit of the paired
// entries together with the idempotency record.
type Engine struct {
	assets  AssetStore
	wallets WalletStore
	ledger  LedgerStore
	idem    idempotency.Store
	cache   idempotency.Cache
	runner  TxRunner
	logger  *logger.Logger

	ttl          time.Duration
	maxAttempts  int
	retryBackoff time.Duration
}

// EngineConfig tunes the engine's idempotency TTL and retry policy. Zero
// values fall back to the defaults.
type EngineConfig struct {
	IdempotencyTTL time.Duration
	MaxAttempts    int
	RetryBackoff   time.Duration
}

// NewEngine creates a new transfer engine. cache may be nil; the store is
// the single authority and the cache only short-circuits obvious retries.
func NewEngine(
	assets AssetStore,
	wallets WalletStore,
	ledgerStore LedgerStore,
	idem idempotency.Store,
	cache idempotency.Cache,
	runner TxRunner,
	cfg EngineConfig,
	log *logger.Logger,
) *Engine {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = idempotency.DefaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	return &Engine{
		assets:       assets,
		wallets:      wallets,
		ledger:       ledgerStore,
		idem:         idem,
		cache:        cache,
		runner:       runner,
		logger:       log.WithField("component", "transfer"),
		ttl:          cfg.IdempotencyTTL,
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
	}
}

// Execute runs one transfer flow end to end
func (e *Engine) Execute(ctx context.Context, flow Flow, req Request) (*Outcome, error) {
	if err := e.validate(flow, &req); err != nil {
		return nil, err
	}

	requestHash := idempotency.HashRequest(req.AssetTypeID, req.Amount, req.Reference)

	// Optimistic pre-check: a pure read, no locks, no side effects. The
	// in-transaction insert below remains the authority under races.
	if outcome, err := e.checkIdempotency(ctx, req.IdempotencyKey, requestHash); outcome != nil || err != nil {
		return outcome, err
	}

	assetType, err := e.resolveAsset(ctx, req)
	if err != nil {
		return nil, err
	}

	source, destination, err := e.resolveWallets(ctx, flow, req)
	if err != nil {
		return nil, err
	}

	var (
		result *Result
		record *idempotency.Record
		winner *idempotency.Record
	)

	run := func(txCtx context.Context) error {
		var err error
		result, record, winner, err = e.transferTx(txCtx, flow, req, requestHash, assetType, source, destination)
		return err
	}

	err = e.withRetry(ctx, run)

	switch {
	case errors.Is(err, errReplayStored):
		// A concurrent writer holding the same key and hash committed
		// first; its response is the canonical one.
		replay, decodeErr := resultFromDocument(winner.ResponseBody)
		if decodeErr != nil {
			return nil, apperr.Internal("failed to decode stored response", decodeErr)
		}
		e.populateCache(ctx, winner)
		return &Outcome{Result: replay, FromCache: true}, nil
	case err != nil:
		return nil, err
	}

	e.populateCache(ctx, record)

	e.logger.WithContext(ctx).Info("transfer committed",
		"flow", string(flow),
		"transaction_id", result.TransactionID,
		"wallet_id", req.WalletID,
		"asset_type_id", req.AssetTypeID,
		"amount", result.Amount,
	)

	return &Outcome{Result: result, FromCache: false}, nil
}

// validate rejects malformed requests before any storage work
func (e *Engine) validate(flow Flow, req *Request) error {
	if !flow.IsValid() {
		return apperr.Wrap(ErrInvalidFlow, apperr.KindBadRequest, "unknown transfer flow")
	}
	if req.WalletID == uuid.Nil {
		return apperr.Wrap(ErrMissingWallet, apperr.KindBadRequest, "wallet ID is required")
	}
	if req.AssetTypeID == uuid.Nil {
		return apperr.Wrap(ErrMissingAsset, apperr.KindBadRequest, "asset type ID is required")
	}
	if !req.Amount.IsPositive() {
		return apperr.Wrap(ErrNonPositiveAmount, apperr.KindBadRequest, "amount must be positive")
	}
	// The ledger stores NUMERIC(28,8). Anything finer would be rounded on
	// insert and no longer match the hashed and echoed amount.
	if !req.Amount.Round(asset.DefaultPrecision).Equal(req.Amount) {
		return apperr.Wrap(ErrAmountTooPrecise, apperr.KindBadRequest, ErrAmountTooPrecise.Error())
	}
	if req.Reference == "" {
		return apperr.Wrap(ErrMissingReference, apperr.KindBadRequest, "reference is required")
	}
	if err := idempotency.ValidateKey(req.IdempotencyKey); err != nil {
		return apperr.Wrap(err, apperr.KindBadRequest, err.Error())
	}
	if req.InitiatedBy == "" {
		req.InitiatedBy = DefaultInitiator
	}
	return nil
}

// checkIdempotency consults the cache, then the store. A hit with the same
// hash replays the stored response; a different hash is a conflict.
func (e *Engine) checkIdempotency(ctx context.Context, key, requestHash string) (*Outcome, error) {
	rec, err := e.lookupRecord(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	if !rec.Matches(requestHash) {
		return nil, apperr.Wrap(idempotency.ErrHashMismatch, apperr.KindConflict, idempotency.ErrHashMismatch.Error())
	}

	result, err := resultFromDocument(rec.ResponseBody)
	if err != nil {
		return nil, apperr.Internal("failed to decode stored response", err)
	}

	return &Outcome{Result: result, FromCache: true}, nil
}

func (e *Engine) lookupRecord(ctx context.Context, key string) (*idempotency.Record, error) {
	if e.cache != nil {
		rec, err := e.cache.Get(ctx, key)
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).Warn("idempotency cache lookup failed")
		} else if rec != nil && !rec.Expired(time.Now().UTC()) {
			return rec, nil
		}
	}

	return e.idem.Lookup(ctx, key)
}

func (e *Engine) resolveAsset(ctx context.Context, req Request) (*asset.AssetType, error) {
	assetType, err := e.assets.GetByID(ctx, req.AssetTypeID)
	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			return nil, apperr.NotFound("asset type")
		}
		return nil, err
	}
	if !assetType.Active {
		return nil, apperr.Wrap(asset.ErrInactive, apperr.KindBadRequest, "asset type is inactive")
	}
	return assetType, nil
}

// resolveWallets loads the user wallet and the flow's system counterparty
// and orients them as (source, destination)
func (e *Engine) resolveWallets(ctx context.Context, flow Flow, req Request) (*wallet.Wallet, *wallet.Wallet, error) {
	userWallet, err := e.wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return nil, nil, apperr.NotFound("wallet")
		}
		return nil, nil, err
	}

	systemWallet, err := e.wallets.GetByOwnerRef(ctx, flow.SystemOwnerRef())
	if err != nil {
		// System wallets are an install invariant; their absence is an
		// operational fault, not a caller mistake.
		if errors.Is(err, wallet.ErrNotFound) {
			return nil, nil, apperr.Internal(
				fmt.Sprintf("system wallet %s is not seeded", flow.SystemOwnerRef()), err)
		}
		return nil, nil, err
	}
	if !systemWallet.IsSystem() || !systemWallet.Active {
		return nil, nil, apperr.Internal(
			fmt.Sprintf("system wallet %s is misconfigured", flow.SystemOwnerRef()), nil)
	}

	if userWallet.ID == systemWallet.ID {
		return nil, nil, apperr.Wrap(ErrSelfTransfer, apperr.KindBadRequest, ErrSelfTransfer.Error())
	}

	if flow.SystemIsSource() {
		return systemWallet, userWallet, nil
	}
	return userWallet, systemWallet, nil
}

// transferTx is the transactional scope: lock, funds check, envelope,
// paired entries, idempotency record. Runs inside one storage transaction.
func (e *Engine) transferTx(
	txCtx context.Context,
	flow Flow,
	req Request,
	requestHash string,
	assetType *asset.AssetType,
	source, destination *wallet.Wallet,
) (*Result, *idempotency.Record, *idempotency.Record, error) {
	locked, err := e.wallets.Lock(txCtx, source.ID, destination.ID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return nil, nil, nil, apperr.NotFound("wallet")
		}
		return nil, nil, nil, err
	}

	for _, w := range locked {
		if !w.Active {
			return nil, nil, nil, apperr.Wrap(wallet.ErrInactive, apperr.KindBadRequest,
				fmt.Sprintf("wallet %s is inactive", w.ID))
		}
	}

	// Funds check only for spend, and only now that the source row lock is
	// held: without the lock a concurrent spend could race past the read.
	// System sources (topup, bonus) may go negative; they are the
	// conservation counterpart of user balances.
	if flow == FlowSpend {
		balance, err := e.ledger.AssetBalance(txCtx, source.ID, assetType.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		if balance.LessThan(req.Amount) {
			return nil, nil, nil, apperr.Wrap(ErrInsufficientFunds, apperr.KindUnprocessable, "insufficient funds")
		}
	}

	now := time.Now().UTC()
	txn := &ledger.Transaction{
		ID:          uuid.New(),
		Type:        flow.Type(),
		Reference:   req.Reference,
		InitiatedBy: req.InitiatedBy,
		Metadata:    req.Metadata,
		CreatedAt:   now,
	}
	if err := e.ledger.InsertTransaction(txCtx, txn); err != nil {
		return nil, nil, nil, err
	}

	// Debit before credit; both become visible atomically at commit
	debit, credit := ledger.NewPair(txn.ID, source.ID, destination.ID, assetType.ID, req.Amount, now)
	if err := e.ledger.InsertEntries(txCtx, debit, credit); err != nil {
		return nil, nil, nil, err
	}

	result := &Result{
		TransactionID: txn.ID,
		Type:          string(flow),
		Reference:     req.Reference,
		AssetTypeID:   assetType.ID,
		AssetSymbol:   assetType.Symbol,
		Amount:        idempotency.CanonicalAmount(req.Amount),
		FromWalletID:  source.ID,
		ToWalletID:    destination.ID,
		CreatedAt:     now,
	}

	document, err := documentFromResult(result)
	if err != nil {
		return nil, nil, nil, apperr.Internal("failed to encode response document", err)
	}

	record := &idempotency.Record{
		Key:            req.IdempotencyKey,
		Endpoint:       string(flow),
		RequestHash:    requestHash,
		ResponseStatus: http.StatusCreated,
		ResponseBody:   document,
		TransactionID:  &txn.ID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(e.ttl),
	}

	// The record rides in the same transaction as the entries, so "transfer
	// done" and "idempotency remembered" cannot come apart. A live row
	// under our key means a concurrent writer won the race.
	existing, err := e.idem.Insert(txCtx, record)
	if err != nil {
		return nil, nil, nil, err
	}
	if existing != nil {
		if existing.Matches(requestHash) {
			return nil, nil, existing, errReplayStored
		}
		return nil, nil, nil, apperr.Wrap(idempotency.ErrHashMismatch, apperr.KindConflict, idempotency.ErrHashMismatch.Error())
	}

	return result, record, nil, nil
}

// withRetry reruns the transactional scope on transient storage conflicts
// (serialization failures, deadlocks) with linear backoff. Everything else
// surfaces immediately.
func (e *Engine) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err = e.runner.WithinTx(ctx, fn)
		if err == nil || !apperr.IsTransient(err) {
			return err
		}
		if attempt == e.maxAttempts {
			break
		}

		backoff := time.Duration(attempt) * e.retryBackoff
		e.logger.WithContext(ctx).Warn("transient conflict, retrying transfer",
			"attempt", attempt,
			"backoff_ms", backoff.Milliseconds(),
		)

		select {
		case <-ctx.Done():
			return apperr.Timeout("transfer cancelled", ctx.Err())
		case <-time.After(backoff):
		}
	}
	return err
}

// populateCache stores the record in the read-through cache, best effort
func (e *Engine) populateCache(ctx context.Context, rec *idempotency.Record) {
	if e.cache == nil || rec == nil {
		return
	}
	if err := e.cache.Set(ctx, rec); err != nil {
		e.logger.WithContext(ctx).WithError(err).Warn("failed to populate idempotency cache")
	}
}

func documentFromResult(result *Result) (map[string]any, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func resultFromDocument(doc map[string]any) (*Result, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
