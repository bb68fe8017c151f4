package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashRequest digests the fields that define a write's identity: asset,
// amount and business reference. Retries that differ only in metadata or
// initiator hash identically and are treated as duplicates.
//
// The encoding is a canonical JSON document with keys in lexicographic
// order and the amount normalized to its canonical decimal string, so
// "500" and "500.00" produce the same digest.
func HashRequest(assetTypeID uuid.UUID, amount decimal.Decimal, reference string) string {
	canonical := fmt.Sprintf(`{"amount":%q,"assetTypeId":%q,"reference":%q}`,
		CanonicalAmount(amount), assetTypeID.String(), reference)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// CanonicalAmount renders a decimal in its canonical textual form: plain
// notation, no exponent, no trailing fractional zeros. 500.00 -> "500",
// 10.50 -> "10.5".
func CanonicalAmount(amount decimal.Decimal) string {
	return amount.String()
}
