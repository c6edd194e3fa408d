package services

import (
	"context"
	"time"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/metrics"
	"sparkletidy/internal/repository"
)

// reportService builds financial reports from a single read of the store.
type reportService struct {
	repo repository.TransactionRepository
}

// NewReportService creates a new ReportServicer.
func NewReportService(repo repository.TransactionRepository) ReportServicer {
	return &reportService{repo: repo}
}

// GenerateReport aggregates every transaction in [StartDate, EndDate] that
// matches the optional filters.
func (s *reportService) GenerateReport(ctx context.Context, req ReportRequest) (report *ledger.Report, err error) {
	start := time.Now()
	defer func() { metrics.ObserveReportGenerate(err, time.Since(start)) }()

	criteria := ledger.ReportCriteria{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ServiceType:   req.ServiceType,
		PaymentMethod: req.PaymentMethod,
	}
	if err := criteria.Validate(); err != nil {
		return nil, apperrors.ErrInvalidRange
	}

	txs, err := s.repo.ListAll(ctx, repository.TransactionFilter{
		From:          &criteria.StartDate,
		To:            &criteria.EndDate,
		ServiceType:   criteria.ServiceType,
		PaymentMethod: criteria.PaymentMethod,
	})
	if err != nil {
		return nil, storeError(err)
	}

	return ledger.BuildReport(criteria, txs), nil
}
