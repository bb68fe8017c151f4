package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playforge/walletd/internal/wallet"
)

// WalletStore implements the wallet store using PostgreSQL
type WalletStore struct {
	pool *pgxpool.Pool
}

// NewWalletStore creates a new PostgreSQL wallet store
func NewWalletStore(pool *pgxpool.Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Create creates a new wallet
func (s *WalletStore) Create(ctx context.Context, w *wallet.Wallet) error {
	if err := w.ValidateCreate(); err != nil {
		return fmt.Errorf("invalid wallet: %w", err)
	}

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	query := `
		INSERT INTO wallets (id, owner_ref, owner_type, label, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := getQueryer(ctx, s.pool)
	_, err := q.Exec(ctx, query,
		w.ID,
		w.OwnerRef,
		string(w.OwnerType),
		w.Label,
		w.Active,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.ErrDuplicateOwnerRef
		}
		return classify(fmt.Errorf("failed to create wallet: %w", err))
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (s *WalletStore) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, owner_ref, owner_type, label, active, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	return s.scanOne(ctx, query, id)
}

// GetByOwnerRef retrieves a wallet by its unique owner reference
func (s *WalletStore) GetByOwnerRef(ctx context.Context, ownerRef string) (*wallet.Wallet, error) {
	query := `
		SELECT id, owner_ref, owner_type, label, active, created_at, updated_at
		FROM wallets
		WHERE owner_ref = $1
	`

	return s.scanOne(ctx, query, ownerRef)
}

// List retrieves all wallets, system wallets first, then by label
func (s *WalletStore) List(ctx context.Context) ([]*wallet.Wallet, error) {
	query := `
		SELECT id, owner_ref, owner_type, label, active, created_at, updated_at
		FROM wallets
		ORDER BY (owner_type = 'system') DESC, label
	`

	q := getQueryer(ctx, s.pool)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query wallets: %w", err))
	}
	defer rows.Close()

	var wallets []*wallet.Wallet
	for rows.Next() {
		w := &wallet.Wallet{}
		if err := rows.Scan(&w.ID, &w.OwnerRef, &w.OwnerType, &w.Label, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, classify(fmt.Errorf("failed to scan wallet: %w", err))
		}
		wallets = append(wallets, w)
	}

	return wallets, rows.Err()
}

// Lock loads the given wallets under exclusive row locks. The ID set is
// deduplicated and locked one row at a time in ascending lexicographic
// order, regardless of the order ids were passed in. Every concurrent
// transfer acquiring locks through this method observes the same global
// order, which rules out lock-order deadlocks.
func (s *WalletStore) Lock(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error) {
	if txFromContext(ctx) == nil {
		return nil, fmt.Errorf("wallet lock requires a transactional scope")
	}

	distinct := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].String() < distinct[j].String()
	})

	query := `
		SELECT id, owner_ref, owner_type, label, active, created_at, updated_at
		FROM wallets
		WHERE id = $1
		FOR UPDATE
	`

	q := getQueryer(ctx, s.pool)
	locked := make(map[uuid.UUID]*wallet.Wallet, len(distinct))
	for _, id := range distinct {
		w := &wallet.Wallet{}
		err := q.QueryRow(ctx, query, id).Scan(
			&w.ID,
			&w.OwnerRef,
			&w.OwnerType,
			&w.Label,
			&w.Active,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, wallet.ErrNotFound
			}
			return nil, classify(fmt.Errorf("failed to lock wallet %s: %w", id, err))
		}
		locked[w.ID] = w
	}

	return locked, nil
}

func (s *WalletStore) scanOne(ctx context.Context, query string, arg any) (*wallet.Wallet, error) {
	w := &wallet.Wallet{}

	q := getQueryer(ctx, s.pool)
	err := q.QueryRow(ctx, query, arg).Scan(
		&w.ID,
		&w.OwnerRef,
		&w.OwnerType,
		&w.Label,
		&w.Active,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrNotFound
		}
		return nil, classify(fmt.Errorf("failed to get wallet: %w", err))
	}

	return w, nil
}
