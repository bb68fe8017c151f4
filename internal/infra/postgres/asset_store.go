package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playforge/walletd/internal/asset"
)

// AssetStore implements the asset store using PostgreSQL
type AssetStore struct {
	pool *pgxpool.Pool
}

// NewAssetStore creates a new PostgreSQL asset store
func NewAssetStore(pool *pgxpool.Pool) *AssetStore {
	return &AssetStore{pool: pool}
}

// Create creates a new asset type
func (s *AssetStore) Create(ctx context.Context, a *asset.AssetType) error {
	if err := a.ValidateCreate(); err != nil {
		return fmt.Errorf("invalid asset type: %w", err)
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO asset_types (id, name, symbol, precision, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := getQueryer(ctx, s.pool)
	_, err := q.Exec(ctx, query,
		a.ID,
		a.Name,
		a.Symbol,
		a.Precision,
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return asset.ErrDuplicateName
		}
		return classify(fmt.Errorf("failed to create asset type: %w", err))
	}

	return nil
}

// GetByID retrieves an asset type by ID
func (s *AssetStore) GetByID(ctx context.Context, id uuid.UUID) (*asset.AssetType, error) {
	query := `
		SELECT id, name, symbol, precision, active, created_at, updated_at
		FROM asset_types
		WHERE id = $1
	`

	return s.scanOne(ctx, query, id)
}

// GetByName retrieves an asset type by its unique name
func (s *AssetStore) GetByName(ctx context.Context, name string) (*asset.AssetType, error) {
	query := `
		SELECT id, name, symbol, precision, active, created_at, updated_at
		FROM asset_types
		WHERE name = $1
	`

	return s.scanOne(ctx, query, name)
}

// ListActive retrieves all active asset types ordered by name
func (s *AssetStore) ListActive(ctx context.Context) ([]*asset.AssetType, error) {
	query := `
		SELECT id, name, symbol, precision, active, created_at, updated_at
		FROM asset_types
		WHERE active
		ORDER BY name
	`

	q := getQueryer(ctx, s.pool)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query asset types: %w", err))
	}
	defer rows.Close()

	var assets []*asset.AssetType
	for rows.Next() {
		a := &asset.AssetType{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Symbol, &a.Precision, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, classify(fmt.Errorf("failed to scan asset type: %w", err))
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

func (s *AssetStore) scanOne(ctx context.Context, query string, arg any) (*asset.AssetType, error) {
	a := &asset.AssetType{}

	q := getQueryer(ctx, s.pool)
	err := q.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Name,
		&a.Symbol,
		&a.Precision,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, asset.ErrNotFound
		}
		return nil, classify(fmt.Errorf("failed to get asset type: %w", err))
	}

	return a, nil
}
