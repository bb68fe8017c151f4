package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playforge/walletd/internal/idempotency"
)

// IdempotencyStore implements the idempotency store using PostgreSQL
type IdempotencyStore struct {
	pool *pgxpool.Pool
}

// NewIdempotencyStore creates a new PostgreSQL idempotency store
func NewIdempotencyStore(pool *pgxpool.Pool) *IdempotencyStore {
	return &IdempotencyStore{pool: pool}
}

// Lookup returns the live record for a key, or nil when the key is absent
// or expired
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*idempotency.Record, error) {
	query := `
		SELECT key, endpoint, request_hash, response_status, response_body, transaction_id, created_at, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND expires_at > now()
	`

	q := getQueryer(ctx, s.pool)
	rec, err := scanRecord(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("failed to look up idempotency key: %w", err))
	}

	return rec, nil
}

// Insert writes the record inside the current transactional scope. A fresh
// key and a key whose old record has expired are written over; a live row
// is left untouched and returned so the caller can resolve the race.
func (s *IdempotencyStore) Insert(ctx context.Context, rec *idempotency.Record) (*idempotency.Record, error) {
	bodyJSON, err := json.Marshal(rec.ResponseBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response body: %w", err)
	}

	// The conditional upsert reclaims expired rows; when the existing row
	// is still live the WHERE clause suppresses the update and nothing is
	// returned, which tells us somebody else committed first.
	query := `
		INSERT INTO idempotency_keys (key, endpoint, request_hash, response_status, response_body, transaction_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
		    request_hash = EXCLUDED.request_hash,
		    response_status = EXCLUDED.response_status,
		    response_body = EXCLUDED.response_body,
		    transaction_id = EXCLUDED.transaction_id,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= now()
		RETURNING key
	`

	q := getQueryer(ctx, s.pool)
	var written string
	err = q.QueryRow(ctx, query,
		rec.Key,
		rec.Endpoint,
		rec.RequestHash,
		rec.ResponseStatus,
		bodyJSON,
		rec.TransactionID,
		rec.CreatedAt,
		rec.ExpiresAt,
	).Scan(&written)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, classify(fmt.Errorf("failed to insert idempotency record: %w", err))
	}

	// A live row holds the key; hand it back to the caller
	existingQuery := `
		SELECT key, endpoint, request_hash, response_status, response_body, transaction_id, created_at, expires_at
		FROM idempotency_keys
		WHERE key = $1
	`
	existing, err := scanRecord(q.QueryRow(ctx, existingQuery, rec.Key))
	if err != nil {
		return nil, classify(fmt.Errorf("failed to load existing idempotency record: %w", err))
	}

	return existing, nil
}

// DeleteExpired removes up to limit expired rows, returning the count
func (s *IdempotencyStore) DeleteExpired(ctx context.Context, limit int) (int64, error) {
	query := `
		DELETE FROM idempotency_keys
		WHERE key IN (
			SELECT key FROM idempotency_keys
			WHERE expires_at <= now()
			LIMIT $1
		)
	`

	q := getQueryer(ctx, s.pool)
	tag, err := q.Exec(ctx, query, limit)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to delete expired idempotency keys: %w", err))
	}

	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (*idempotency.Record, error) {
	rec := &idempotency.Record{}
	var bodyJSON []byte

	err := row.Scan(
		&rec.Key,
		&rec.Endpoint,
		&rec.RequestHash,
		&rec.ResponseStatus,
		&bodyJSON,
		&rec.TransactionID,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if len(bodyJSON) > 0 {
		if err := json.Unmarshal(bodyJSON, &rec.ResponseBody); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return rec, nil
}
