package wallet

import "errors"

var (
	// Validation errors
	ErrMissingOwnerRef  = errors.New("owner reference is required")
	ErrInvalidOwnerType = errors.New("invalid owner type")
	ErrMissingLabel     = errors.New("wallet label is required")
	ErrLabelTooLong     = errors.New("wallet label exceeds 100 characters")

	// Store errors
	ErrNotFound          = errors.New("wallet not found")
	ErrDuplicateOwnerRef = errors.New("owner reference already has a wallet")

	// ErrInactive rejects transfers touching a deactivated wallet
	ErrInactive = errors.New("wallet is inactive")
)
