package ledger

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

// mockWindow is how far back generated service dates reach.
const mockWindow = 90 * 24 * time.Hour

type mockClient struct {
	name  string
	email string
}

var mockClients = []mockClient{
	{"Avery Johnson", "avery.johnson@example.com"},
	{"Jordan Lee", "jordan.lee@example.com"},
	{"Morgan Patel", "morgan.patel@example.com"},
	{"Riley Garcia", "riley.garcia@example.com"},
	{"Casey Nguyen", "casey.nguyen@example.com"},
	{"Taylor Brooks", "taylor.brooks@example.com"},
	{"Jamie Rivera", "jamie.rivera@example.com"},
	{"Quinn Martinez", "quinn.martinez@example.com"},
	{"Harbor View Offices", "facilities@harborview.example.com"},
	{"Maple Street Dental", "office@maplestreetdental.example.com"},
}

var mockRefundReasons = []string{
	"Client not satisfied with service quality",
	"Appointment cancelled by client",
	"Service not completed",
	"Duplicate charge",
}

// GenerateMockTransactions synthesizes count plausible transactions for demos
// and tests. Records come back without a TransactionID; the store assigns one.
// Every record satisfies Validate by construction: refunds equal the amount
// and all money is non-negative. The distributions are for demo data only.
func GenerateMockTransactions(rng *rand.Rand, count int, contractors []string, pricing Pricing, now time.Time) []models.Transaction {
	if count <= 0 {
		return []models.Transaction{}
	}

	txs := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txs = append(txs, mockTransaction(rng, contractors, pricing, now))
	}
	return txs
}

func mockTransaction(rng *rand.Rand, contractors []string, pricing Pricing, now time.Time) models.Transaction {
	serviceType := models.ServiceTypes[rng.IntN(len(models.ServiceTypes))]

	jitter := int64(0)
	if pricing.MaxJitter > 0 {
		jitter = rng.Int64N(pricing.MaxJitter + 1)
	}
	amount := pricing.BasePrice(serviceType).Add(decimal.NewFromInt(jitter))

	discountPercent := 0
	if pricing.MaxDiscountPercent > 0 {
		discountPercent = rng.IntN(pricing.MaxDiscountPercent + 1)
	}
	discount := amount.Mul(decimal.NewFromInt(int64(discountPercent))).Div(decimal.NewFromInt(100)).Round(2)

	client := mockClients[rng.IntN(len(mockClients))]
	status := models.TransactionStatuses[rng.IntN(len(models.TransactionStatuses))]

	tx := models.Transaction{
		Date:             now.Add(-time.Duration(rng.Int64N(int64(mockWindow)))).UTC().Truncate(time.Minute),
		ClientName:       client.name,
		ClientEmail:      client.email,
		ServiceType:      serviceType,
		Amount:           amount,
		PaymentMethod:    models.PaymentMethods[rng.IntN(len(models.PaymentMethods))],
		Status:           status,
		TaxAmount:        pricing.Tax(amount),
		DiscountAmount:   discount,
		ContractorPayout: pricing.Payout(amount),
		PayoutStatus:     models.PayoutStatusPending,
		RefundAmount:     decimal.Zero,
	}

	if len(contractors) > 0 {
		id := contractors[rng.IntN(len(contractors))]
		tx.ContractorID = &id
	}

	switch status {
	case models.TransactionStatusRefunded:
		tx.RefundAmount = amount
		tx.RefundReason = mockRefundReasons[rng.IntN(len(mockRefundReasons))]
	case models.TransactionStatusCompleted:
		if rng.Float64() < pricing.PaidPayoutProbability {
			tx.PayoutStatus = models.PayoutStatusPaid
		}
	}

	return tx
}
