package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

// ValidationError lists every rule a transaction breaks.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validate checks a complete transaction against the ledger invariants:
// closed enums, a service date, non-negative money and refund ≤ amount.
// It returns a *ValidationError or nil.
func Validate(tx *models.Transaction) error {
	var problems []string

	if tx.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if !tx.ServiceType.Valid() {
		problems = append(problems, fmt.Sprintf("invalid service_type %q", tx.ServiceType))
	}
	if !tx.PaymentMethod.Valid() {
		problems = append(problems, fmt.Sprintf("invalid payment_method %q", tx.PaymentMethod))
	}
	if !tx.Status.Valid() {
		problems = append(problems, fmt.Sprintf("invalid status %q", tx.Status))
	}
	if !tx.PayoutStatus.Valid() {
		problems = append(problems, fmt.Sprintf("invalid payout_status %q", tx.PayoutStatus))
	}

	money := []struct {
		field string
		value decimal.Decimal
	}{
		{"amount", tx.Amount},
		{"tax_amount", tx.TaxAmount},
		{"discount_amount", tx.DiscountAmount},
		{"contractor_payout", tx.ContractorPayout},
		{"refund_amount", tx.RefundAmount},
	}
	for _, m := range money {
		if m.value.IsNegative() {
			problems = append(problems, m.field+" must not be negative")
		}
	}

	if tx.RefundAmount.GreaterThan(tx.Amount) {
		problems = append(problems, "refund_amount must not exceed amount")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ApplyDefaults fills the fields a new record may omit.
func ApplyDefaults(tx *models.Transaction) {
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	if tx.PayoutStatus == "" {
		tx.PayoutStatus = models.PayoutStatusPending
	}
	if tx.ContractorID != nil && *tx.ContractorID == "" {
		tx.ContractorID = nil
	}
	tx.ClientEmail = strings.ToLower(strings.TrimSpace(tx.ClientEmail))
	tx.Date = tx.Date.UTC()
}
