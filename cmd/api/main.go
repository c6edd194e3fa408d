package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sparkletidy/internal/archive"
	"sparkletidy/internal/config"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/metrics"
	"sparkletidy/internal/middleware"
	"sparkletidy/internal/server"
	"sparkletidy/internal/services"
	"sparkletidy/internal/validator"
)

// @title           Sparkle Tidy API
// @version         1.0
// @description     Transaction ledger, financial reports and demo data for the Sparkle Tidy admin dashboard.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key
// @description Booking site intake key.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	metrics.Init()
	validator.Register()

	pricing := ledger.DefaultPricing()
	if cfg.PricingFile != "" {
		pricing, err = config.LoadPricing(cfg.PricingFile)
		if err != nil {
			return fmt.Errorf("failed to load pricing: %w", err)
		}
		log.Infow("Loaded pricing overrides", "file", cfg.PricingFile)
	}

	store, err := server.OpenStore(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnf("store close error: %v", err)
		}
	}()

	var archiver archive.Archiver
	if cfg.ArchiveBucket != "" {
		gcs, err := archive.NewGCSArchiver(context.Background(), cfg.ArchiveBucket)
		if err != nil {
			return fmt.Errorf("failed to create report archiver: %w", err)
		}
		defer gcs.Close()
		archiver = gcs
		log.Infow("Archiving report exports", "bucket", cfg.ArchiveBucket)
	}

	// Initialize services
	reportService := services.NewReportService(store.Transactions)
	router := server.NewRouter(server.Deps{
		Transactions:  services.NewTransactionService(store.Transactions),
		Reports:       reportService,
		Exports:       services.NewExportService(reportService, archiver),
		Mock:          services.NewMockService(store.Transactions, pricing),
		Auth:          services.NewAuthService(cfg.Auth),
		Audit:         store.Audit,
		Store:         store.Transactions,
		Tokens:        middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration),
		BookingAPIKey: cfg.Auth.BookingAPIKey,
		EnableDocs:    true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Sparkle Tidy API on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
