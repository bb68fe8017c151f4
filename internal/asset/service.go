package asset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides read access to the asset catalog
type Service struct {
	store Store
}

// NewService creates a new asset service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get retrieves an asset type by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AssetType, error) {
	assetType, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return assetType, nil
}

// List retrieves all active asset types ordered by name
func (s *Service) List(ctx context.Context) ([]*AssetType, error) {
	assetTypes, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset types: %w", err)
	}

	return assetTypes, nil
}
