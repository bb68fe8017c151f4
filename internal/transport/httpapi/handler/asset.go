package handler

import (
	"context"
	"net/http"

	"github.com/playforge/walletd/internal/asset"
)

// AssetService is the handler's view of the asset catalog
type AssetService interface {
	List(ctx context.Context) ([]*asset.AssetType, error)
}

// AssetHandler serves the asset catalog
type AssetHandler struct {
	assets AssetService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// ListAssets handles GET /api/v1/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if assets == nil {
		assets = []*asset.AssetType{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"assets": assets})
}
