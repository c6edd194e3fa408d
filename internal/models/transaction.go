package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType is the kind of cleaning job billed by a transaction
type ServiceType string

const (
	ServiceTypeStandard   ServiceType = "standard"
	ServiceTypeDeep       ServiceType = "deep"
	ServiceTypeMoveIn     ServiceType = "move-in"
	ServiceTypeMoveOut    ServiceType = "move-out"
	ServiceTypeCommercial ServiceType = "commercial"
)

// ServiceTypes lists every service type in display order.
var ServiceTypes = []ServiceType{
	ServiceTypeStandard,
	ServiceTypeDeep,
	ServiceTypeMoveIn,
	ServiceTypeMoveOut,
	ServiceTypeCommercial,
}

// Valid reports whether s is a known service type.
func (s ServiceType) Valid() bool {
	for _, v := range ServiceTypes {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethod is how the client paid
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodOther        PaymentMethod = "other"
)

// PaymentMethods lists every payment method.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBankTransfer,
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodPaypal,
	PaymentMethodOther,
}

// Valid reports whether p is a known payment method.
func (p PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if p == v {
			return true
		}
	}
	return false
}

// TransactionStatus governs which report buckets a transaction contributes to
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// TransactionStatuses lists every transaction status.
var TransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusCompleted,
	TransactionStatusRefunded,
	TransactionStatusFailed,
	TransactionStatusCancelled,
}

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	for _, v := range TransactionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PayoutStatus tracks the contractor's share independently of TransactionStatus
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusCancelled PayoutStatus = "cancelled"
)

// PayoutStatuses lists every payout status.
var PayoutStatuses = []PayoutStatus{
	PayoutStatusPending,
	PayoutStatusPaid,
	PayoutStatusCancelled,
}

// Valid reports whether s is a known payout status.
func (s PayoutStatus) Valid() bool {
	for _, v := range PayoutStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Transaction is one billable cleaning-service event with its payment,
// payout and refund facets. Client fields are a snapshot taken at booking
// time, not a live reference.
type Transaction struct {
	TransactionID    string            `gorm:"primaryKey;size:64" json:"transaction_id"`
	Date             time.Time         `gorm:"not null;index:idx_transactions_date,sort:desc" json:"date"`
	ClientName       string            `gorm:"size:255" json:"client_name"`
	ClientEmail      string            `gorm:"size:255;index" json:"client_email"`
	ServiceType      ServiceType       `gorm:"size:32;not null" json:"service_type"`
	Amount           decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod    PaymentMethod     `gorm:"size:32;not null" json:"payment_method"`
	Status           TransactionStatus `gorm:"size:32;not null;index" json:"status"`
	TaxAmount        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DiscountAmount   decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	ContractorID     *string           `gorm:"size:64;index" json:"contractor_id,omitempty"`
	ContractorPayout decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"contractor_payout"`
	PayoutStatus     PayoutStatus      `gorm:"size:32;not null" json:"payout_status"`
	RefundAmount     decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"refund_amount"`
	RefundReason     string            `json:"refund_reason,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Version          int               `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// IsCompleted reports whether the transaction counts toward revenue.
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// IsRefunded reports whether the transaction counts toward refunds.
func (t *Transaction) IsRefunded() bool {
	return t.Status == TransactionStatusRefunded
}

// IsPayoutPaid reports whether the contractor share has been paid out.
func (t *Transaction) IsPayoutPaid() bool {
	return t.PayoutStatus == PayoutStatusPaid
}

// NewestFirst orders transactions by date descending, breaking ties by
// transaction id descending. It is the listing order used everywhere.
func NewestFirst(a, b Transaction) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return strings.Compare(b.TransactionID, a.TransactionID)
}
