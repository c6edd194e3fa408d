package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/metrics"
	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/uuid"
)

// maxTransactionIDLength matches the primary key column size.
const maxTransactionIDLength = 64

// transactionService enforces the ledger invariants in front of a repository.
type transactionService struct {
	repo repository.TransactionRepository
	now  func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(repo repository.TransactionRepository) TransactionServicer {
	return &transactionService{repo: repo, now: time.Now}
}

// CreateTransaction validates and stores a new transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	id := strings.TrimSpace(input.TransactionID)
	if len(id) > maxTransactionIDLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_id must be at most 64 characters")
	}
	if id == "" {
		id = uuid.New()
	}

	tx := &models.Transaction{
		TransactionID:    id,
		Date:             input.Date,
		ClientName:       strings.TrimSpace(input.ClientName),
		ClientEmail:      input.ClientEmail,
		ServiceType:      input.ServiceType,
		Amount:           input.Amount,
		PaymentMethod:    input.PaymentMethod,
		Status:           input.Status,
		TaxAmount:        input.TaxAmount,
		DiscountAmount:   input.DiscountAmount,
		ContractorID:     input.ContractorID,
		ContractorPayout: input.ContractorPayout,
		PayoutStatus:     input.PayoutStatus,
		RefundAmount:     input.RefundAmount,
		RefundReason:     strings.TrimSpace(input.RefundReason),
		Notes:            input.Notes,
		Version:          1,
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	ledger.ApplyDefaults(tx)

	if err := ledger.Validate(tx); err != nil {
		return nil, validationError(err)
	}
	warnRefundWithoutReason(tx)

	start := time.Now()
	err := s.repo.Create(ctx, tx)
	metrics.ObserveStoreOperation("create", err, time.Since(start))
	if err != nil {
		return nil, storeError(err)
	}
	return tx, nil
}

// GetTransaction returns the transaction with the given id.
func (s *transactionService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	start := time.Now()
	tx, err := s.repo.Get(ctx, id)
	metrics.ObserveStoreOperation("get", err, time.Since(start))
	if err != nil {
		return nil, storeError(err)
	}
	return tx, nil
}

// UpdateTransaction merges a partial update into the stored record and
// re-validates the result. A rejected update leaves the stored record as is.
func (s *transactionService) UpdateTransaction(ctx context.Context, id string, update ledger.TransactionUpdate) (*models.Transaction, error) {
	current, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.ExpectedVersion != nil && *update.ExpectedVersion != current.Version {
		return nil, apperrors.ErrVersionConflict
	}
	if update.IsEmpty() {
		return current, nil
	}

	next := update.Apply(*current)
	if err := ledger.Validate(&next); err != nil {
		return nil, validationError(err)
	}
	warnRefundWithoutReason(&next)

	start := time.Now()
	err = s.repo.Update(ctx, &next, current.Version)
	metrics.ObserveStoreOperation("update", err, time.Since(start))
	if err != nil {
		return nil, storeError(err)
	}
	return &next, nil
}

// DeleteTransaction permanently removes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, id string) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	metrics.ObserveStoreOperation("delete", err, time.Since(start))
	return storeError(err)
}

// QueryTransactions returns a page of matching transactions, newest first.
func (s *transactionService) QueryTransactions(ctx context.Context, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.ErrInvalidRange
	}
	page.Defaults()

	start := time.Now()
	txs, total, err := s.repo.List(ctx, filter, page)
	metrics.ObserveStoreOperation("query", err, time.Since(start))
	if err != nil {
		return nil, storeError(err)
	}

	result := pagination.NewPageResponse(txs, page.Page, page.PageSize, total)
	return &result, nil
}

// RecordRefund marks a transaction refunded. A nil amount refunds in full.
func (s *transactionService) RecordRefund(ctx context.Context, id string, amount *decimal.Decimal, reason string) (*models.Transaction, error) {
	current, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	refund := current.Amount
	if amount != nil {
		refund = *amount
	}
	status := models.TransactionStatusRefunded
	reason = strings.TrimSpace(reason)
	version := current.Version

	return s.UpdateTransaction(ctx, id, ledger.TransactionUpdate{
		Status:          &status,
		RefundAmount:    &refund,
		RefundReason:    &reason,
		ExpectedVersion: &version,
	})
}

// SetPayoutStatus changes the contractor payout status.
func (s *transactionService) SetPayoutStatus(ctx context.Context, id string, status models.PayoutStatus) (*models.Transaction, error) {
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "invalid payout_status \""+string(status)+"\"")
	}
	return s.UpdateTransaction(ctx, id, ledger.TransactionUpdate{PayoutStatus: &status})
}

func warnRefundWithoutReason(tx *models.Transaction) {
	if tx.IsRefunded() && tx.RefundReason == "" {
		logger.Get().Warnw("refunded transaction has no refund reason",
			"transaction_id", tx.TransactionID,
			"refund_amount", tx.RefundAmount.String(),
		)
	}
}
