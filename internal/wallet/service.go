package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides read access to wallets
type Service struct {
	store Store
}

// NewService creates a new wallet service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get retrieves a wallet by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	w, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// List retrieves all wallets, system wallets before user wallets
func (s *Service) List(ctx context.Context) ([]*Wallet, error) {
	wallets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}
