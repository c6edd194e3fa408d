package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"sparkletidy/internal/models"
	"sparkletidy/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTransaction returns a valid, unsaved completed standard clean with a
// fresh id. Options adjust it before it is returned.
func NewTransaction(opts ...func(*models.Transaction)) models.Transaction {
	n := nextID()
	tx := models.Transaction{
		TransactionID:    uuid.New(),
		Date:             time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		ClientName:       fmt.Sprintf("Client %d", n),
		ClientEmail:      fmt.Sprintf("client%d@test.com", n),
		ServiceType:      models.ServiceTypeStandard,
		Amount:           decimal.NewFromInt(120),
		PaymentMethod:    models.PaymentMethodCreditCard,
		Status:           models.TransactionStatusCompleted,
		TaxAmount:        decimal.RequireFromString("9.90"),
		DiscountAmount:   decimal.Zero,
		ContractorPayout: decimal.NewFromInt(84),
		PayoutStatus:     models.PayoutStatusPending,
		RefundAmount:     decimal.Zero,
		Version:          1,
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}

// CreateTestTransaction inserts a transaction built by NewTransaction.
func CreateTestTransaction(t *testing.T, db *gorm.DB, opts ...func(*models.Transaction)) *models.Transaction {
	t.Helper()

	tx := NewTransaction(opts...)
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return &tx
}

// WithDate sets the transaction date.
func WithDate(d time.Time) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.Date = d }
}

// WithStatus sets the transaction status.
func WithStatus(s models.TransactionStatus) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.Status = s }
}

// WithAmount sets the amount from a decimal string.
func WithAmount(amount string) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.Amount = decimal.RequireFromString(amount) }
}

// WithContractor sets the contractor reference.
func WithContractor(id string) func(*models.Transaction) {
	return func(tx *models.Transaction) { tx.ContractorID = &id }
}
