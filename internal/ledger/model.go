package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies the flow that produced a transaction
type TransactionType string

const (
	TypeTopup TransactionType = "topup" // Treasury -> user wallet
	TypeBonus TransactionType = "bonus" // Bonus pool -> user wallet
	TypeSpend TransactionType = "spend" // User wallet -> revenue
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeTopup, TypeBonus, TypeSpend:
		return true
	}
	return false
}

// Direction marks which side of a double-entry pair a row is
type Direction string

const (
	Debit  Direction = "debit"  // Funds leave the wallet
	Credit Direction = "credit" // Funds enter the wallet
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case Debit, Credit:
		return true
	}
	return false
}

// Transaction is the envelope of one logical transfer. The two ledger
// entries referencing it carry the actual funds movement.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Type        TransactionType `json:"type" db:"type"`
	Reference   string          `json:"reference" db:"reference"`
	InitiatedBy string          `json:"initiatedBy" db:"initiated_by"`
	Metadata    map[string]any  `json:"metadata" db:"metadata"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Validate validates the transaction envelope
func (t *Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return ErrMissingTransactionID
	}

	if !t.Type.IsValid() {
		return ErrInvalidType
	}

	if t.Reference == "" {
		return ErrMissingReference
	}

	return nil
}

// Entry is one side of a double-entry pair. Entries are immutable: the
// service never updates or deletes them, corrections are new transactions.
type Entry struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TransactionID uuid.UUID       `json:"transactionId" db:"transaction_id"`
	WalletID      uuid.UUID       `json:"walletId" db:"wallet_id"`
	AssetTypeID   uuid.UUID       `json:"assetTypeId" db:"asset_type_id"`
	Direction     Direction       `json:"direction" db:"direction"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// Validate validates a single entry
func (e *Entry) Validate() error {
	if e.TransactionID == uuid.Nil {
		return ErrMissingTransactionID
	}

	if e.WalletID == uuid.Nil {
		return ErrMissingWallet
	}

	if e.AssetTypeID == uuid.Nil {
		return ErrMissingAsset
	}

	if !e.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	return nil
}

// IsDebit returns true if this entry removes funds from its wallet
func (e *Entry) IsDebit() bool {
	return e.Direction == Debit
}

// IsCredit returns true if this entry adds funds to its wallet
func (e *Entry) IsCredit() bool {
	return e.Direction == Credit
}

// SignedAmount returns the amount with credits positive and debits negative,
// so that summing signed amounts yields the wallet balance.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.IsDebit() {
		return e.Amount.Neg()
	}
	return e.Amount
}

// NewPair builds the balanced debit/credit pair of a transfer: a debit on
// the source wallet and a credit on the destination, equal amounts, same
// asset. The pair sums to zero by construction.
func NewPair(transactionID, fromWalletID, toWalletID, assetTypeID uuid.UUID, amount decimal.Decimal, at time.Time) (*Entry, *Entry) {
	debit := &Entry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		WalletID:      fromWalletID,
		AssetTypeID:   assetTypeID,
		Direction:     Debit,
		Amount:        amount,
		CreatedAt:     at,
	}

	credit := &Entry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		WalletID:      toWalletID,
		AssetTypeID:   assetTypeID,
		Direction:     Credit,
		Amount:        amount,
		CreatedAt:     at,
	}

	return debit, credit
}

// AssetBalance is the derived balance of one asset within a wallet
type AssetBalance struct {
	AssetTypeID uuid.UUID       `json:"assetTypeId"`
	AssetName   string          `json:"name"`
	AssetSymbol string          `json:"symbol"`
	Balance     decimal.Decimal `json:"balance"`
}

// WalletBalances groups the non-zero balances of a wallet
type WalletBalances struct {
	WalletID uuid.UUID      `json:"walletId"`
	Label    string         `json:"label"`
	Balances []AssetBalance `json:"balances"`
}

// HistoryEntry is a ledger entry enriched with its transaction context and
// asset symbol for display
type HistoryEntry struct {
	EntryID       uuid.UUID       `json:"entryId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Type          TransactionType `json:"type"`
	Reference     string          `json:"reference"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	AssetTypeID   uuid.UUID       `json:"assetTypeId"`
	AssetSymbol   string          `json:"assetSymbol"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Page is one page of a wallet's history, newest first
type Page struct {
	WalletID uuid.UUID      `json:"walletId"`
	Label    string         `json:"label"`
	Total    int64          `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Entries  []HistoryEntry `json:"entries"`
}
