package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/export"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
	"sparkletidy/internal/repository"
)

// CreateTransactionInput carries every transaction field except bookkeeping
// columns. TransactionID may be supplied by an upstream system; otherwise a
// UUIDv7 is assigned. A zero Date means now.
type CreateTransactionInput struct {
	TransactionID    string
	Date             time.Time
	ClientName       string
	ClientEmail      string
	ServiceType      models.ServiceType
	Amount           decimal.Decimal
	PaymentMethod    models.PaymentMethod
	Status           models.TransactionStatus
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	ContractorID     *string
	ContractorPayout decimal.Decimal
	PayoutStatus     models.PayoutStatus
	RefundAmount     decimal.Decimal
	RefundReason     string
	Notes            string
}

// ReportRequest selects the transactions a report covers.
type ReportRequest struct {
	StartDate     time.Time
	EndDate       time.Time
	ServiceType   *models.ServiceType
	PaymentMethod *models.PaymentMethod
}

// TransactionServicer defines the contract for the transaction store.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, update ledger.TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	QueryTransactions(ctx context.Context, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	RecordRefund(ctx context.Context, id string, amount *decimal.Decimal, reason string) (*models.Transaction, error)
	SetPayoutStatus(ctx context.Context, id string, status models.PayoutStatus) (*models.Transaction, error)
}

// ReportServicer defines the contract for financial reports.
type ReportServicer interface {
	GenerateReport(ctx context.Context, req ReportRequest) (*ledger.Report, error)
}

// ExportServicer renders reports as downloadable documents.
type ExportServicer interface {
	ExportReport(ctx context.Context, req ReportRequest, format export.Format) (*export.Document, error)
}

// MockServicer defines the contract for demo data generation.
type MockServicer interface {
	GenerateMockTransactions(ctx context.Context, count int, contractorIDs []string) (int, error)
}

// AuthServicer verifies the admin credential.
type AuthServicer interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
