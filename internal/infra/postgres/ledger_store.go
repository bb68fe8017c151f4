package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/playforge/walletd/internal/ledger"
)

// LedgerStore implements the ledger store using PostgreSQL. Entries are
// append-only: the store exposes no update or delete for them.
type LedgerStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewLedgerStore creates a new PostgreSQL ledger store
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertTransaction writes a transfer envelope
func (s *LedgerStore) InsertTransaction(ctx context.Context, t *ledger.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	metadata := t.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (id, type, reference, initiated_by, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	q := getQueryer(ctx, s.pool)
	_, err = q.Exec(ctx, query,
		t.ID,
		string(t.Type),
		t.Reference,
		t.InitiatedBy,
		metadataJSON,
		t.CreatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to insert transaction: %w", err))
	}

	return nil
}

// InsertEntries writes ledger entries in the order given
func (s *LedgerStore) InsertEntries(ctx context.Context, entries ...*ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, transaction_id, wallet_id, asset_type_id, direction, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := getQueryer(ctx, s.pool)
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid entry: %w", err)
		}

		_, err := q.Exec(ctx, query,
			e.ID,
			e.TransactionID,
			e.WalletID,
			e.AssetTypeID,
			string(e.Direction),
			e.Amount,
			e.CreatedAt,
		)
		if err != nil {
			return classify(fmt.Errorf("failed to insert %s entry: %w", e.Direction, err))
		}
	}

	return nil
}

// AssetBalance derives the balance of (wallet, asset): credits minus debits
// over the wallet's entries for that asset. Inside a transactional scope
// holding the wallet's row lock this is the authoritative funds check.
func (s *LedgerStore) AssetBalance(ctx context.Context, walletID, assetTypeID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)::text
		FROM ledger_entries
		WHERE wallet_id = $1 AND asset_type_id = $2
	`

	var balanceStr string
	q := getQueryer(ctx, s.pool)
	if err := q.QueryRow(ctx, query, walletID, assetTypeID).Scan(&balanceStr); err != nil {
		return decimal.Zero, classify(fmt.Errorf("failed to derive balance: %w", err))
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse derived balance %q: %w", balanceStr, err)
	}

	return balance, nil
}

// WalletBalances derives all balances of a wallet, one row per asset with a
// non-zero entry sum, ordered by asset name
func (s *LedgerStore) WalletBalances(ctx context.Context, walletID uuid.UUID) ([]ledger.AssetBalance, error) {
	query, args, err := s.sb.
		Select(
			"e.asset_type_id",
			"a.name",
			"a.symbol",
			"SUM(CASE WHEN e.direction = 'credit' THEN e.amount ELSE -e.amount END)::text AS balance",
		).
		From("ledger_entries e").
		Join("asset_types a ON a.id = e.asset_type_id").
		Where(sq.Eq{"e.wallet_id": walletID}).
		GroupBy("e.asset_type_id", "a.name", "a.symbol").
		Having("SUM(CASE WHEN e.direction = 'credit' THEN e.amount ELSE -e.amount END) <> 0").
		OrderBy("a.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build balances query: %w", err)
	}

	q := getQueryer(ctx, s.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query balances: %w", err))
	}
	defer rows.Close()

	var balances []ledger.AssetBalance
	for rows.Next() {
		var b ledger.AssetBalance
		var balanceStr string
		if err := rows.Scan(&b.AssetTypeID, &b.AssetName, &b.AssetSymbol, &balanceStr); err != nil {
			return nil, classify(fmt.Errorf("failed to scan balance: %w", err))
		}
		if b.Balance, err = decimal.NewFromString(balanceStr); err != nil {
			return nil, fmt.Errorf("failed to parse derived balance %q: %w", balanceStr, err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// ListEntries returns the wallet's entries newest first, enriched with the
// owning transaction's type and reference and the asset symbol. Ordering is
// (created_at, id) DESC so pages stay stable when entries share a timestamp.
func (s *LedgerStore) ListEntries(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]ledger.HistoryEntry, error) {
	query, args, err := s.sb.
		Select(
			"e.id",
			"e.transaction_id",
			"t.type",
			"t.reference",
			"e.direction",
			"e.amount::text",
			"e.asset_type_id",
			"a.symbol",
			"e.created_at",
		).
		From("ledger_entries e").
		Join("transactions t ON t.id = e.transaction_id").
		Join("asset_types a ON a.id = e.asset_type_id").
		Where(sq.Eq{"e.wallet_id": walletID}).
		OrderBy("e.created_at DESC", "e.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	q := getQueryer(ctx, s.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query history: %w", err))
	}
	defer rows.Close()

	var entries []ledger.HistoryEntry
	for rows.Next() {
		var e ledger.HistoryEntry
		var amountStr string
		err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.Type,
			&e.Reference,
			&e.Direction,
			&amountStr,
			&e.AssetTypeID,
			&e.AssetSymbol,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to scan history entry: %w", err))
		}
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse entry amount %q: %w", amountStr, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountEntries returns the total number of entries for a wallet
func (s *LedgerStore) CountEntries(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE wallet_id = $1`

	var count int64
	q := getQueryer(ctx, s.pool)
	if err := q.QueryRow(ctx, query, walletID).Scan(&count); err != nil {
		return 0, classify(fmt.Errorf("failed to count entries: %w", err))
	}

	return count, nil
}
