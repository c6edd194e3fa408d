package services

import (
	"context"
	"math/rand/v2"
	"time"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/metrics"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/uuid"
)

const (
	minMockCount = 1
	maxMockCount = 500
)

// mockService fills the store with generated demo transactions.
type mockService struct {
	repo    repository.TransactionRepository
	pricing ledger.Pricing
	newRand func() *rand.Rand
	now     func() time.Time
}

// NewMockService creates a new MockServicer.
func NewMockService(repo repository.TransactionRepository, pricing ledger.Pricing) MockServicer {
	return &mockService{
		repo:    repo,
		pricing: pricing,
		newRand: func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
		now:     time.Now,
	}
}

// GenerateMockTransactions inserts count generated transactions in one write
// and returns how many were stored. Without explicit contractor ids the
// contractors already present in the store are used.
func (s *mockService) GenerateMockTransactions(ctx context.Context, count int, contractorIDs []string) (int, error) {
	if count < minMockCount || count > maxMockCount {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "count must be between 1 and 500")
	}

	contractors := contractorIDs
	if len(contractors) == 0 {
		ids, err := s.repo.DistinctContractorIDs(ctx)
		if err != nil {
			return 0, storeError(err)
		}
		contractors = ids
	}

	txs := ledger.GenerateMockTransactions(s.newRand(), count, contractors, s.pricing, s.now())
	for i := range txs {
		txs[i].TransactionID = uuid.New()
		txs[i].Version = 1
	}

	start := time.Now()
	err := s.repo.CreateBatch(ctx, txs)
	metrics.ObserveStoreOperation("create_batch", err, time.Since(start))
	if err != nil {
		return 0, storeError(err)
	}

	metrics.AddMockTransactions(len(txs))
	logger.Get().Infow("generated mock transactions",
		"count", len(txs),
		"contractors", len(contractors),
	)
	return len(txs), nil
}
