package asset

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPrecision is the number of decimal places an asset supports unless
// configured otherwise. It matches the scale of the ledger's amount columns.
const DefaultPrecision = 8

// MaxSymbolLength matches the symbol column width
const MaxSymbolLength = 10

// AssetType represents a virtual currency recognized by the platform.
type AssetType struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Symbol    string    `json:"symbol" db:"symbol"`
	Precision int       `json:"precision" db:"precision"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ValidateCreate validates asset type fields for creation
func (a *AssetType) ValidateCreate() error {
	if a.Name == "" {
		return ErrMissingName
	}

	if len(a.Name) > 100 {
		return ErrNameTooLong
	}

	if a.Symbol == "" {
		return ErrMissingSymbol
	}

	if len(a.Symbol) > MaxSymbolLength {
		return ErrSymbolTooLong
	}

	if a.Precision < 0 || a.Precision > DefaultPrecision {
		return ErrInvalidPrecision
	}

	return nil
}
