// Package repository persists transactions. Implementations return the plain
// sentinel errors below; the service layer maps them onto API errors.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrDuplicateID     = errors.New("transaction id already exists")
	ErrVersionConflict = errors.New("transaction version conflict")
)

// TransactionFilter selects transactions. Zero-valued fields match everything.
// The date range is inclusive on both ends.
type TransactionFilter struct {
	From          *time.Time
	To            *time.Time
	Status        *models.TransactionStatus
	ServiceType   *models.ServiceType
	PaymentMethod *models.PaymentMethod
	ContractorID  string
	ClientEmail   string
}

// Matches reports whether tx passes every set criterion.
func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Date.After(*f.To) {
		return false
	}
	if f.Status != nil && tx.Status != *f.Status {
		return false
	}
	if f.ServiceType != nil && tx.ServiceType != *f.ServiceType {
		return false
	}
	if f.PaymentMethod != nil && tx.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.ContractorID != "" && (tx.ContractorID == nil || *tx.ContractorID != f.ContractorID) {
		return false
	}
	if f.ClientEmail != "" && !strings.EqualFold(tx.ClientEmail, f.ClientEmail) {
		return false
	}
	return true
}

// TransactionRepository is the storage contract behind the transaction store.
// Listings are ordered by models.NewestFirst.
type TransactionRepository interface {
	// Create inserts tx. An existing id yields ErrDuplicateID.
	Create(ctx context.Context, tx *models.Transaction) error
	// CreateBatch inserts every record in one write; nothing is stored on error.
	CreateBatch(ctx context.Context, txs []models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	// Update replaces the stored record when its version still equals
	// expectedVersion. On success tx.Version is expectedVersion+1.
	Update(ctx context.Context, tx *models.Transaction, expectedVersion int) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	// ListAll returns every match in one consistent read.
	ListAll(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	DistinctContractorIDs(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
