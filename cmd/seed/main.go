// Command seed fills the configured store with generated demo transactions.
//
//	seed -count 200 -contractors c-101,c-102
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"sparkletidy/internal/config"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/server"
	"sparkletidy/internal/services"
)

// maxPerCall mirrors the per-request cap of the mock generator.
const maxPerCall = 500

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	count := flag.Int("count", 100, "number of transactions to generate")
	contractors := flag.String("contractors", "", "comma-separated contractor ids (default: contractors already in the store)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	if *count < 1 {
		return fmt.Errorf("-count must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pricing := ledger.DefaultPricing()
	if cfg.PricingFile != "" {
		if pricing, err = config.LoadPricing(cfg.PricingFile); err != nil {
			return fmt.Errorf("failed to load pricing: %w", err)
		}
	}

	store, err := server.OpenStore(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Warnf("store close error: %v", err)
		}
	}()

	var ids []string
	for _, id := range strings.Split(*contractors, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mock := services.NewMockService(store.Transactions, pricing)
	created := 0
	for remaining := *count; remaining > 0; {
		n := min(remaining, maxPerCall)
		got, err := mock.GenerateMockTransactions(ctx, n, ids)
		if err != nil {
			return fmt.Errorf("generated %d of %d: %w", created, *count, err)
		}
		created += got
		remaining -= got
	}

	logger.Get().Infof("Seeded %d transactions into the %s store", created, cfg.StoreDriver)
	return nil
}
