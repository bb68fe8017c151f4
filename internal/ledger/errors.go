package ledger

import "errors"

var (
	// Validation errors
	ErrMissingTransactionID = errors.New("transaction ID is required")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrMissingReference     = errors.New("transaction reference is required")
	ErrInvalidDirection     = errors.New("invalid entry direction")
	ErrNonPositiveAmount    = errors.New("entry amount must be positive")
	ErrMissingWallet        = errors.New("entry wallet is required")
	ErrMissingAsset         = errors.New("entry asset type is required")
)
