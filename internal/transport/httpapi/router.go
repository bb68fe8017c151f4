package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/walletd/internal/transport/httpapi/handler"
	"github.com/playforge/walletd/internal/transport/httpapi/middleware"
	"github.com/playforge/walletd/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger          *logger.Logger
	AllowedOrigins  []string
	RateLimitRPS    int
	RateLimitBurst  int
	TransferHandler *handler.TransferHandler
	WalletHandler   *handler.WalletHandler
	AssetHandler    *handler.AssetHandler
	HealthHandler   *handler.HealthHandler
	AuthMiddleware  func(http.Handler) http.Handler // nil disables auth
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Health probes stay outside auth
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Get("/assets", cfg.AssetHandler.ListAssets)

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", cfg.WalletHandler.ListWallets)

			r.Route("/{walletID}", func(r chi.Router) {
				r.Get("/balance", cfg.WalletHandler.GetBalance)
				r.Get("/transactions", cfg.WalletHandler.GetTransactions)

				r.Post("/topup", cfg.TransferHandler.Topup)
				r.Post("/bonus", cfg.TransferHandler.Bonus)
				r.Post("/spend", cfg.TransferHandler.Spend)
			})
		})
	})

	return r
}
