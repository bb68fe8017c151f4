package asset

import "errors"

var (
	// Validation errors
	ErrMissingName      = errors.New("asset name is required")
	ErrNameTooLong      = errors.New("asset name exceeds 100 characters")
	ErrMissingSymbol    = errors.New("asset symbol is required")
	ErrSymbolTooLong    = errors.New("asset symbol exceeds 10 characters")
	ErrInvalidPrecision = errors.New("asset precision must be between 0 and 8")

	// Store errors
	ErrNotFound      = errors.New("asset type not found")
	ErrDuplicateName = errors.New("asset name already exists")

	// ErrInactive rejects writes against a deactivated asset type
	ErrInactive = errors.New("asset type is inactive")
)
