package ledger

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func march(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

func fullMarch() ReportCriteria {
	return ReportCriteria{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
}

func tx(id string, day int, st models.ServiceType, status models.TransactionStatus, amount string) models.Transaction {
	return models.Transaction{
		TransactionID: id,
		Date:          march(day),
		ServiceType:   st,
		Amount:        dec(amount),
		PaymentMethod: models.PaymentMethodCreditCard,
		Status:        status,
		PayoutStatus:  models.PayoutStatusPending,
	}
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, got)
	}
}

func TestBuildReport_CompletedAndRefunded(t *testing.T) {
	completed := tx("a", 5, models.ServiceTypeStandard, models.TransactionStatusCompleted, "120.00")
	completed.TaxAmount = dec("9.90")
	refunded := tx("b", 6, models.ServiceTypeDeep, models.TransactionStatusRefunded, "200.00")
	refunded.RefundAmount = dec("200.00")

	r := BuildReport(fullMarch(), []models.Transaction{completed, refunded})

	assertDecimal(t, "total_revenue", r.Summary.TotalRevenue, "120.00")
	assertDecimal(t, "total_refunds", r.Summary.TotalRefunds, "200.00")
	assertDecimal(t, "net_revenue", r.Summary.NetRevenue, "-80.00")
	assertDecimal(t, "total_tax", r.Summary.TotalTax, "9.90")

	if len(r.ServiceBreakdown) != 1 {
		t.Fatalf("expected one breakdown entry, got %v", r.ServiceBreakdown)
	}
	std, ok := r.ServiceBreakdown[models.ServiceTypeStandard]
	if !ok {
		t.Fatal("expected standard entry in breakdown")
	}
	if std.Count != 1 {
		t.Errorf("expected count 1, got %d", std.Count)
	}
	assertDecimal(t, "standard revenue", std.Revenue, "120.00")
	if r.Summary.TransactionCount != 2 || len(r.Transactions) != 2 {
		t.Errorf("expected both transactions selected, got %d", len(r.Transactions))
	}
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport(fullMarch(), nil)

	for name, v := range map[string]decimal.Decimal{
		"total_revenue":   r.Summary.TotalRevenue,
		"total_refunds":   r.Summary.TotalRefunds,
		"net_revenue":     r.Summary.NetRevenue,
		"total_tax":       r.Summary.TotalTax,
		"total_discounts": r.Summary.TotalDiscounts,
		"total_payouts":   r.Summary.TotalPayouts,
		"gross_profit":    r.Summary.GrossProfit,
	} {
		if !v.IsZero() {
			t.Errorf("%s: expected zero, got %s", name, v)
		}
	}
	if r.ServiceBreakdown == nil || len(r.ServiceBreakdown) != 0 {
		t.Errorf("expected empty non-nil breakdown, got %v", r.ServiceBreakdown)
	}
	if r.Transactions == nil || len(r.Transactions) != 0 {
		t.Errorf("expected empty non-nil transaction list, got %v", r.Transactions)
	}
	if !r.RevenueShare(models.ServiceTypeStandard).IsZero() {
		t.Error("revenue share over an empty report should be zero")
	}
}

func TestBuildReport_DiscountsAndPayoutsIgnoreStatus(t *testing.T) {
	cancelled := tx("a", 2, models.ServiceTypeDeep, models.TransactionStatusCancelled, "200")
	cancelled.DiscountAmount = dec("15.00")
	cancelled.ContractorPayout = dec("140.00")
	cancelled.PayoutStatus = models.PayoutStatusPaid

	pending := tx("b", 3, models.ServiceTypeStandard, models.TransactionStatusPending, "120")
	pending.DiscountAmount = dec("5.00")
	pending.ContractorPayout = dec("84.00")

	completed := tx("c", 4, models.ServiceTypeCommercial, models.TransactionStatusCompleted, "350")
	completed.ContractorPayout = dec("245.00")
	completed.PayoutStatus = models.PayoutStatusPaid

	r := BuildReport(fullMarch(), []models.Transaction{cancelled, pending, completed})

	assertDecimal(t, "total_discounts", r.Summary.TotalDiscounts, "20.00")
	assertDecimal(t, "total_payouts", r.Summary.TotalPayouts, "385.00")
	assertDecimal(t, "total_revenue", r.Summary.TotalRevenue, "350")
	assertDecimal(t, "gross_profit", r.Summary.GrossProfit, "-35.00")
}

func TestBuildReport_Selection(t *testing.T) {
	inRange := tx("a", 10, models.ServiceTypeStandard, models.TransactionStatusCompleted, "100")
	before := tx("b", 1, models.ServiceTypeStandard, models.TransactionStatusCompleted, "100")
	before.Date = time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	after := tx("c", 1, models.ServiceTypeStandard, models.TransactionStatusCompleted, "100")
	after.Date = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	onStart := tx("d", 1, models.ServiceTypeDeep, models.TransactionStatusCompleted, "200")
	onStart.Date = fullMarch().StartDate
	cash := tx("e", 11, models.ServiceTypeStandard, models.TransactionStatusCompleted, "100")
	cash.PaymentMethod = models.PaymentMethodCash

	all := []models.Transaction{inRange, before, after, onStart, cash}

	t.Run("date_range_inclusive", func(t *testing.T) {
		r := BuildReport(fullMarch(), all)
		if r.Summary.TransactionCount != 3 {
			t.Errorf("expected 3 selected, got %d", r.Summary.TransactionCount)
		}
	})

	t.Run("service_type_filter", func(t *testing.T) {
		c := fullMarch()
		deep := models.ServiceTypeDeep
		c.ServiceType = &deep
		r := BuildReport(c, all)
		if r.Summary.TransactionCount != 1 || r.Transactions[0].TransactionID != "d" {
			t.Errorf("expected only the deep clean, got %+v", r.Transactions)
		}
	})

	t.Run("payment_method_filter", func(t *testing.T) {
		c := fullMarch()
		method := models.PaymentMethodCash
		c.PaymentMethod = &method
		r := BuildReport(c, all)
		if r.Summary.TransactionCount != 1 || r.Transactions[0].TransactionID != "e" {
			t.Errorf("expected only the cash payment, got %+v", r.Transactions)
		}
	})

	t.Run("ordered_by_date_desc", func(t *testing.T) {
		r := BuildReport(fullMarch(), all)
		for i := 1; i < len(r.Transactions); i++ {
			if r.Transactions[i].Date.After(r.Transactions[i-1].Date) {
				t.Fatalf("transactions not in date-descending order at %d", i)
			}
		}
	})
}

func TestBuildReport_Invariants(t *testing.T) {
	txs := GenerateMockTransactions(newRand(42), 200, []string{"c1", "c2"}, DefaultPricing(), march(31))
	for i := range txs {
		txs[i].TransactionID = fmt.Sprintf("t%03d", i)
	}
	criteria := ReportCriteria{StartDate: march(31).AddDate(0, 0, -120), EndDate: march(31)}

	r := BuildReport(criteria, txs)

	if !r.Summary.TotalRevenue.Sub(r.Summary.TotalRefunds).Equal(r.Summary.NetRevenue) {
		t.Error("net revenue must equal revenue minus refunds")
	}
	if !r.Summary.NetRevenue.Sub(r.Summary.TotalPayouts).Equal(r.Summary.GrossProfit) {
		t.Error("gross profit must equal net revenue minus payouts")
	}

	completed := 0
	for i := range r.Transactions {
		if r.Transactions[i].IsCompleted() {
			completed++
		}
	}
	if r.CompletedCount() != completed {
		t.Errorf("breakdown counts %d, completed transactions %d", r.CompletedCount(), completed)
	}
	for st, b := range r.ServiceBreakdown {
		if b.Count == 0 {
			t.Errorf("breakdown has zero-count entry for %s", st)
		}
	}
}

func TestBuildReport_Deterministic(t *testing.T) {
	txs := GenerateMockTransactions(newRand(7), 50, nil, DefaultPricing(), march(31))
	for i := range txs {
		txs[i].TransactionID = fmt.Sprintf("t%03d", i)
	}
	criteria := ReportCriteria{StartDate: march(1).AddDate(0, -6, 0), EndDate: march(31)}

	reversed := make([]models.Transaction, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}
	snapshot := make([]models.Transaction, len(txs))
	copy(snapshot, txs)

	first := BuildReport(criteria, txs)
	second := BuildReport(criteria, txs)
	third := BuildReport(criteria, reversed)

	if !reflect.DeepEqual(first, second) {
		t.Error("two calls over the same input produced different reports")
	}
	if !reflect.DeepEqual(first.Summary, third.Summary) || !reflect.DeepEqual(first.Transactions, third.Transactions) {
		t.Error("report depends on input order")
	}
	if !reflect.DeepEqual(txs, snapshot) {
		t.Error("BuildReport modified its input")
	}
}

func TestReportCriteria_Validate(t *testing.T) {
	if err := fullMarch().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	sameDay := ReportCriteria{StartDate: march(3), EndDate: march(3)}
	if err := sameDay.Validate(); err != nil {
		t.Errorf("single-instant range should be valid: %v", err)
	}
	inverted := ReportCriteria{StartDate: march(10), EndDate: march(9)}
	if err := inverted.Validate(); err != ErrInvalidRange {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestReport_RevenueShare(t *testing.T) {
	a := tx("a", 2, models.ServiceTypeStandard, models.TransactionStatusCompleted, "100")
	b := tx("b", 3, models.ServiceTypeDeep, models.TransactionStatusCompleted, "300")

	r := BuildReport(fullMarch(), []models.Transaction{a, b})

	assertDecimal(t, "standard share", r.RevenueShare(models.ServiceTypeStandard), "25")
	assertDecimal(t, "deep share", r.RevenueShare(models.ServiceTypeDeep), "75")
	assertDecimal(t, "move-in share", r.RevenueShare(models.ServiceTypeMoveIn), "0")
}
