package asset

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for asset type data access
type Store interface {
	// Create creates a new asset type
	Create(ctx context.Context, assetType *AssetType) error

	// GetByID retrieves an asset type by ID
	GetByID(ctx context.Context, id uuid.UUID) (*AssetType, error)

	// GetByName retrieves an asset type by its unique name
	GetByName(ctx context.Context, name string) (*AssetType, error)

	// ListActive retrieves all active asset types ordered by name
	ListActive(ctx context.Context) ([]*AssetType, error)
}
