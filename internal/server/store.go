package server

import (
	"fmt"

	"sparkletidy/internal/config"
	"sparkletidy/internal/database"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/services"
)

// Store is the opened transaction store with its matching audit sink.
type Store struct {
	Transactions repository.TransactionRepository
	Audit        services.AuditServicer
	close        func() error
}

// OpenStore opens the store selected by cfg.StoreDriver. Relational stores are
// migrated when migrate is true. The bolt store has no audit table, so its
// audit entries go to the log only.
func OpenStore(cfg *config.Config, migrate bool) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverBolt:
		repo, err := repository.NewBoltTransactionRepository(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger.Get().Infow("Using bolt transaction store", "path", cfg.BoltPath)
		return &Store{
			Transactions: repo,
			Audit:        services.NewLogAuditService(),
			close:        repo.Close,
		}, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		dbManager, err := database.NewManager(cfg.StoreDriver, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if migrate {
			if err := dbManager.Migrate(); err != nil {
				_ = dbManager.Close()
				return nil, fmt.Errorf("failed to run database migrations: %w", err)
			}
		}
		logger.Get().Infow("Using relational transaction store", "driver", cfg.StoreDriver)
		return &Store{
			Transactions: repository.NewGormTransactionRepository(dbManager.DB()),
			Audit:        services.NewAuditService(dbManager.DB()),
			close:        dbManager.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}

// Close releases the underlying store.
func (s *Store) Close() error {
	return s.close()
}
