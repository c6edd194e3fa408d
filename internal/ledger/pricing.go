package ledger

import (
	"github.com/shopspring/decimal"

	"sparkletidy/internal/models"
)

// Pricing is the company's price book used to synthesize mock transactions.
type Pricing struct {
	BasePrices            map[models.ServiceType]decimal.Decimal
	MaxJitter             int64
	TaxRate               decimal.Decimal
	PayoutRate            decimal.Decimal
	MaxDiscountPercent    int
	PaidPayoutProbability float64
}

// DefaultPricing returns the standard price book.
func DefaultPricing() Pricing {
	return Pricing{
		BasePrices: map[models.ServiceType]decimal.Decimal{
			models.ServiceTypeStandard:   decimal.NewFromInt(120),
			models.ServiceTypeDeep:       decimal.NewFromInt(200),
			models.ServiceTypeMoveIn:     decimal.NewFromInt(250),
			models.ServiceTypeMoveOut:    decimal.NewFromInt(280),
			models.ServiceTypeCommercial: decimal.NewFromInt(350),
		},
		MaxJitter:             50,
		TaxRate:               decimal.RequireFromString("0.0825"),
		PayoutRate:            decimal.RequireFromString("0.70"),
		MaxDiscountPercent:    10,
		PaidPayoutProbability: 0.7,
	}
}

// BasePrice returns the list price for a service type, falling back to the
// standard clean when the type is missing from the price book.
func (p Pricing) BasePrice(st models.ServiceType) decimal.Decimal {
	if price, ok := p.BasePrices[st]; ok {
		return price
	}
	return p.BasePrices[models.ServiceTypeStandard]
}

// Tax computes the sales tax on amount, rounded to cents.
func (p Pricing) Tax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.TaxRate).Round(2)
}

// Payout computes the contractor's share of amount, rounded to cents.
func (p Pricing) Payout(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.PayoutRate).Round(2)
}
