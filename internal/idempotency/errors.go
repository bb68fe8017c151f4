package idempotency

import "errors"

var (
	ErrMissingKey = errors.New("idempotency key is required")
	ErrKeyTooLong = errors.New("idempotency key exceeds 255 characters")

	// ErrHashMismatch marks a key reused with a different canonical request
	ErrHashMismatch = errors.New("idempotency key reused with a different request")
)
