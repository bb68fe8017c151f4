package transfer

import "errors"

var (
	// Validation errors
	ErrInvalidFlow       = errors.New("unknown transfer flow")
	ErrMissingWallet     = errors.New("wallet ID is required")
	ErrMissingAsset      = errors.New("asset type ID is required")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrAmountTooPrecise  = errors.New("amount exceeds 8 decimal places")
	ErrMissingReference  = errors.New("reference is required")

	// ErrInsufficientFunds rejects a spend that would overdraw the source
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer guards against source and destination resolving to
	// the same wallet
	ErrSelfTransfer = errors.New("cannot transfer funds to the same wallet")
)
