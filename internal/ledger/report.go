package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

// ErrInvalidRange is returned when a report's start date is after its end date.
var ErrInvalidRange = errors.New("start date is after end date")

// ReportCriteria selects the transactions a report covers. The date range is
// inclusive on both ends; nil filters match everything.
type ReportCriteria struct {
	StartDate     time.Time
	EndDate       time.Time
	ServiceType   *models.ServiceType
	PaymentMethod *models.PaymentMethod
}

// Validate returns ErrInvalidRange when StartDate is after EndDate.
func (c ReportCriteria) Validate() error {
	if c.StartDate.After(c.EndDate) {
		return ErrInvalidRange
	}
	return nil
}

// Matches reports whether tx falls inside the criteria.
func (c ReportCriteria) Matches(tx *models.Transaction) bool {
	if tx.Date.Before(c.StartDate) || tx.Date.After(c.EndDate) {
		return false
	}
	if c.ServiceType != nil && tx.ServiceType != *c.ServiceType {
		return false
	}
	if c.PaymentMethod != nil && tx.PaymentMethod != *c.PaymentMethod {
		return false
	}
	return true
}

// ServiceBreakdown is the completed-transaction subtotal for one service type.
type ServiceBreakdown struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary holds the report's scalar totals.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	NetRevenue       decimal.Decimal `json:"net_revenue"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	TotalDiscounts   decimal.Decimal `json:"total_discounts"`
	TotalPayouts     decimal.Decimal `json:"total_payouts"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`
	TransactionCount int             `json:"transaction_count"`
}

// Report is a financial summary over a filtered set of transactions.
type Report struct {
	StartDate        time.Time                               `json:"start_date"`
	EndDate          time.Time                               `json:"end_date"`
	ServiceType      *models.ServiceType                     `json:"service_type,omitempty"`
	PaymentMethod    *models.PaymentMethod                   `json:"payment_method,omitempty"`
	Summary          Summary                                 `json:"summary"`
	ServiceBreakdown map[models.ServiceType]ServiceBreakdown `json:"service_breakdown"`
	Transactions     []models.Transaction                    `json:"transactions"`
}

// BuildReport aggregates the transactions matching criteria. It is a pure
// function of its inputs: the slice is not modified and the output depends
// only on the matching records, never on their input order.
//
//   - revenue and tax count completed transactions only
//   - refunds count refunded transactions only
//   - discounts count every selected transaction regardless of status
//   - payouts count every transaction whose payout is paid, regardless of status
//   - the breakdown has an entry only for types with completed transactions
func BuildReport(criteria ReportCriteria, txs []models.Transaction) *Report {
	selected := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if criteria.Matches(&txs[i]) {
			selected = append(selected, txs[i])
		}
	}
	slices.SortStableFunc(selected, models.NewestFirst)

	var s Summary
	breakdown := make(map[models.ServiceType]ServiceBreakdown)

	for i := range selected {
		tx := &selected[i]

		if tx.IsCompleted() {
			s.TotalRevenue = s.TotalRevenue.Add(tx.Amount)
			s.TotalTax = s.TotalTax.Add(tx.TaxAmount)

			b := breakdown[tx.ServiceType]
			b.Count++
			b.Revenue = b.Revenue.Add(tx.Amount)
			breakdown[tx.ServiceType] = b
		}
		if tx.IsRefunded() {
			s.TotalRefunds = s.TotalRefunds.Add(tx.RefundAmount)
		}
		if tx.IsPayoutPaid() {
			s.TotalPayouts = s.TotalPayouts.Add(tx.ContractorPayout)
		}
		s.TotalDiscounts = s.TotalDiscounts.Add(tx.DiscountAmount)
	}

	s.NetRevenue = s.TotalRevenue.Sub(s.TotalRefunds)
	s.GrossProfit = s.NetRevenue.Sub(s.TotalPayouts)
	s.TransactionCount = len(selected)

	return &Report{
		StartDate:        criteria.StartDate,
		EndDate:          criteria.EndDate,
		ServiceType:      criteria.ServiceType,
		PaymentMethod:    criteria.PaymentMethod,
		Summary:          s,
		ServiceBreakdown: breakdown,
		Transactions:     selected,
	}
}

// CompletedCount returns the number of completed transactions in the breakdown.
func (r *Report) CompletedCount() int {
	n := 0
	for _, b := range r.ServiceBreakdown {
		n += b.Count
	}
	return n
}

// RevenueShare returns the fraction of total revenue earned by st as a
// percentage, or zero when there is no revenue.
func (r *Report) RevenueShare(st models.ServiceType) decimal.Decimal {
	if r.Summary.TotalRevenue.IsZero() {
		return decimal.Zero
	}
	return r.ServiceBreakdown[st].Revenue.Div(r.Summary.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(1)
}
