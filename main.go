package main

import (
	"context"
	"errors"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"dmiBot/config"
	"dmiBot/internal/adapters/binanceclient"
	"dmiBot/internal/adapters/logger"
	"dmiBot/internal/adapters/sqlite"
	"dmiBot/internal/api"
	"dmiBot/internal/app"
	"dmiBot/internal/strategy"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger, err := logger.New(cfg.LogFormat, cfg.LogLevel, "dmiBot")
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	if s, ok := appLogger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{
		"level":  cfg.LogLevel.String(),
		"format": cfg.LogFormat,
	})

	// 3. Initialize Repository (Database Adapter). The file is opened on first use.
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 5. Initialize Strategy
	strat, err := strategy.New(appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal evaluator")
		log.Fatalf("FATAL: Failed to initialize signal evaluator: %v", err)
	}

	// 6. Initialize Application Service
	signalService, err := app.NewSignalService(
		appLogger,
		repo, // satisfies ports.ConfigRepository
		repo, // satisfies ports.OrderRepository
		binanceClient,
		strat,
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal service")
		log.Fatalf("FATAL: Failed to initialize signal service: %v", err)
	}

	// 7. HTTP API
	gin.SetMode(cfg.GinMode)
	router, err := api.NewRouter(api.RouterConfig{
		Service: signalService,
		Logger:  appLogger,
		WebhookRateLimit: api.RateLimiterConfig{
			RequestsPerSecond: cfg.WebhookRateLimitRPS,
			Burst:             cfg.WebhookRateLimitBurst,
		},
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize HTTP router")
		log.Fatalf("FATAL: Failed to initialize HTTP router: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// 8. Serve until SIGINT/SIGTERM, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info(context.Background(), "HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			appLogger.Error(context.Background(), err, "HTTP server exited with error")
			return
		}
	case <-ctx.Done():
		appLogger.Info(context.Background(), "Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), err, "Error during HTTP server shutdown")
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
