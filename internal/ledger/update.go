package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

// TransactionUpdate is a partial update: nil fields are left unchanged.
// The transaction ID is deliberately absent because it is immutable.
// An empty ContractorID clears the contractor reference.
type TransactionUpdate struct {
	Date             *time.Time
	ClientName       *string
	ClientEmail      *string
	ServiceType      *models.ServiceType
	Amount           *decimal.Decimal
	PaymentMethod    *models.PaymentMethod
	Status           *models.TransactionStatus
	TaxAmount        *decimal.Decimal
	DiscountAmount   *decimal.Decimal
	ContractorID     *string
	ContractorPayout *decimal.Decimal
	PayoutStatus     *models.PayoutStatus
	RefundAmount     *decimal.Decimal
	RefundReason     *string
	Notes            *string

	// ExpectedVersion, when set, must equal the stored version.
	ExpectedVersion *int
}

// IsEmpty reports whether the update changes no field.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Date == nil && u.ClientName == nil && u.ClientEmail == nil &&
		u.ServiceType == nil && u.Amount == nil && u.PaymentMethod == nil &&
		u.Status == nil && u.TaxAmount == nil && u.DiscountAmount == nil &&
		u.ContractorID == nil && u.ContractorPayout == nil && u.PayoutStatus == nil &&
		u.RefundAmount == nil && u.RefundReason == nil && u.Notes == nil
}

// Apply returns a copy of current with the update merged in. current is not
// modified, so a rejected merge leaves the caller's record intact.
func (u TransactionUpdate) Apply(current models.Transaction) models.Transaction {
	next := current

	if u.Date != nil {
		next.Date = u.Date.UTC()
	}
	if u.ClientName != nil {
		next.ClientName = *u.ClientName
	}
	if u.ClientEmail != nil {
		next.ClientEmail = strings.ToLower(strings.TrimSpace(*u.ClientEmail))
	}
	if u.ServiceType != nil {
		next.ServiceType = *u.ServiceType
	}
	if u.Amount != nil {
		next.Amount = *u.Amount
	}
	if u.PaymentMethod != nil {
		next.PaymentMethod = *u.PaymentMethod
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.TaxAmount != nil {
		next.TaxAmount = *u.TaxAmount
	}
	if u.DiscountAmount != nil {
		next.DiscountAmount = *u.DiscountAmount
	}
	if u.ContractorID != nil {
		if *u.ContractorID == "" {
			next.ContractorID = nil
		} else {
			id := *u.ContractorID
			next.ContractorID = &id
		}
	}
	if u.ContractorPayout != nil {
		next.ContractorPayout = *u.ContractorPayout
	}
	if u.PayoutStatus != nil {
		next.PayoutStatus = *u.PayoutStatus
	}
	if u.RefundAmount != nil {
		next.RefundAmount = *u.RefundAmount
	}
	if u.RefundReason != nil {
		next.RefundReason = *u.RefundReason
	}
	if u.Notes != nil {
		next.Notes = *u.Notes
	}

	return next
}

// Changes summarizes the update for audit logging.
func (u TransactionUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	if u.Date != nil {
		changes["date"] = u.Date.UTC().Format(time.RFC3339)
	}
	if u.ClientName != nil {
		changes["client_name"] = *u.ClientName
	}
	if u.ClientEmail != nil {
		changes["client_email"] = *u.ClientEmail
	}
	if u.ServiceType != nil {
		changes["service_type"] = *u.ServiceType
	}
	if u.Amount != nil {
		changes["amount"] = u.Amount.String()
	}
	if u.PaymentMethod != nil {
		changes["payment_method"] = *u.PaymentMethod
	}
	if u.Status != nil {
		changes["status"] = *u.Status
	}
	if u.TaxAmount != nil {
		changes["tax_amount"] = u.TaxAmount.String()
	}
	if u.DiscountAmount != nil {
		changes["discount_amount"] = u.DiscountAmount.String()
	}
	if u.ContractorID != nil {
		changes["contractor_id"] = *u.ContractorID
	}
	if u.ContractorPayout != nil {
		changes["contractor_payout"] = u.ContractorPayout.String()
	}
	if u.PayoutStatus != nil {
		changes["payout_status"] = *u.PayoutStatus
	}
	if u.RefundAmount != nil {
		changes["refund_amount"] = u.RefundAmount.String()
	}
	if u.RefundReason != nil {
		changes["refund_reason"] = *u.RefundReason
	}
	if u.Notes != nil {
		changes["notes"] = *u.Notes
	}
	return changes
}
