package idempotency

import (
	"time"

	"github.com/google/uuid"
)

// MaxKeyLength is the longest idempotency key the service accepts
const MaxKeyLength = 255

// DefaultTTL is how long a record shields its key from re-execution
const DefaultTTL = 24 * time.Hour

// Record memoizes the outcome of a completed write. It is inserted in the
// same database transaction as the ledger entries it describes, so the
// cached response becomes visible exactly when the funds movement does.
type Record struct {
	Key            string         `json:"key" db:"key"`
	Endpoint       string         `json:"endpoint" db:"endpoint"`
	RequestHash    string         `json:"request_hash" db:"request_hash"`
	ResponseStatus int            `json:"response_status" db:"response_status"`
	ResponseBody   map[string]any `json:"response_body" db:"response_body"`
	TransactionID  *uuid.UUID     `json:"transaction_id,omitempty" db:"transaction_id"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	ExpiresAt      time.Time      `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the record no longer shields its key
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Matches reports whether a request with the given hash is a retry of the
// request this record was written for
func (r *Record) Matches(requestHash string) bool {
	return r.RequestHash == requestHash
}

// ValidateKey checks an incoming idempotency key
func ValidateKey(key string) error {
	if key == "" {
		return ErrMissingKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}
