package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playforge/walletd/internal/asset"
	"github.com/playforge/walletd/internal/idempotency"
	"github.com/playforge/walletd/internal/infra/postgres"
	infraredis "github.com/playforge/walletd/internal/infra/redis"
	"github.com/playforge/walletd/internal/ledger"
	"github.com/playforge/walletd/internal/transfer"
	"github.com/playforge/walletd/internal/transport/httpapi"
	"github.com/playforge/walletd/internal/transport/httpapi/handler"
	"github.com/playforge/walletd/internal/transport/httpapi/middleware"
	"github.com/playforge/walletd/internal/wallet"
	"github.com/playforge/walletd/pkg/config"
	"github.com/playforge/walletd/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("starting walletd",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
	)

	// Storage
	db, err := postgres.NewPool(ctx, postgres.Config{
		URL:              cfg.DatabaseURL,
		MaxConns:         int32(cfg.DBMaxConns),
		MinConns:         int32(cfg.DBMinConns),
		StatementTimeout: cfg.DBStatementTimeout,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connection established")

	// Optional idempotency cache; nil disables it, the store stays the
	// single authority either way
	var cache idempotency.Cache
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		cache = infraredis.NewCache(redisClient, log)
		log.Info("idempotency cache enabled", "addr", cfg.RedisAddr)
	} else {
		log.Info("idempotency cache disabled")
	}

	// Stores
	assetStore := postgres.NewAssetStore(db.Pool)
	walletStore := postgres.NewWalletStore(db.Pool)
	ledgerStore := postgres.NewLedgerStore(db.Pool)
	idemStore := postgres.NewIdempotencyStore(db.Pool)
	txRunner := postgres.NewTxRunner(db.Pool)

	// Services
	assetSvc := asset.NewService(assetStore)
	walletSvc := wallet.NewService(walletStore)
	ledgerSvc := ledger.NewService(ledgerStore, walletStore)
	engine := transfer.NewEngine(
		assetStore,
		walletStore,
		ledgerStore,
		idemStore,
		cache,
		txRunner,
		transfer.EngineConfig{
			IdempotencyTTL: cfg.IdempotencyTTL,
			MaxAttempts:    cfg.TransferMaxAttempts,
			RetryBackoff:   cfg.TransferRetryBackoff,
		},
		log,
	)

	// Optional bearer auth
	var authMiddleware func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		jwtSvc := middleware.NewJWTService(cfg.AuthSecret)
		authMiddleware = middleware.Auth(jwtSvc)
		log.Info("bearer authentication enabled")
	}

	router := httpapi.NewRouter(httpapi.Config{
		Logger:          log,
		AllowedOrigins:  strings.Split(cfg.AllowedOrigins, ","),
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		TransferHandler: handler.NewTransferHandler(engine),
		WalletHandler:   handler.NewWalletHandler(walletSvc, ledgerSvc),
		AssetHandler:    handler.NewAssetHandler(assetSvc),
		HealthHandler:   handler.NewHealthHandler(db),
		AuthMiddleware:  authMiddleware,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background expiry sweeper
	sweeper := idempotency.NewSweeper(idemStore, cfg.IdempotencySweepInterval, cfg.IdempotencySweepBatch, log)
	go sweeper.Run(ctx)

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	// In-flight transfers either commit or roll back before the process
	// exits; the grace period lets their HTTP exchanges finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
