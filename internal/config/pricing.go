package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
)

// pricingFile mirrors the on-disk price book. Money values are strings so
// YAML never routes them through float64.
type pricingFile struct {
	BasePrices            map[string]string `yaml:"base_prices"`
	MaxJitter             *int64            `yaml:"max_jitter"`
	TaxRate               string            `yaml:"tax_rate"`
	PayoutRate            string            `yaml:"payout_rate"`
	MaxDiscountPercent    *int              `yaml:"max_discount_percent"`
	PaidPayoutProbability *float64          `yaml:"paid_payout_probability"`
}

// LoadPricing reads a YAML price book. An empty path yields the defaults;
// keys missing from the file keep their default values.
func LoadPricing(path string) (ledger.Pricing, error) {
	pricing := ledger.DefaultPricing()
	if path == "" {
		return pricing, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return pricing, fmt.Errorf("read pricing file: %w", err)
	}
	return ParsePricing(raw)
}

// ParsePricing decodes a YAML price book on top of the defaults.
func ParsePricing(raw []byte) (ledger.Pricing, error) {
	pricing := ledger.DefaultPricing()

	var file pricingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return pricing, fmt.Errorf("parse pricing file: %w", err)
	}

	for name, value := range file.BasePrices {
		st := models.ServiceType(name)
		if !st.Valid() {
			return pricing, fmt.Errorf("pricing: unknown service type %q", name)
		}
		price, err := parseMoney("base_prices."+name, value)
		if err != nil {
			return pricing, err
		}
		pricing.BasePrices[st] = price
	}

	if file.MaxJitter != nil {
		if *file.MaxJitter < 0 {
			return pricing, fmt.Errorf("pricing: max_jitter must be non-negative")
		}
		pricing.MaxJitter = *file.MaxJitter
	}
	if file.TaxRate != "" {
		rate, err := parseMoney("tax_rate", file.TaxRate)
		if err != nil {
			return pricing, err
		}
		pricing.TaxRate = rate
	}
	if file.PayoutRate != "" {
		rate, err := parseMoney("payout_rate", file.PayoutRate)
		if err != nil {
			return pricing, err
		}
		if rate.GreaterThan(decimal.NewFromInt(1)) {
			return pricing, fmt.Errorf("pricing: payout_rate must not exceed 1")
		}
		pricing.PayoutRate = rate
	}
	if file.MaxDiscountPercent != nil {
		if *file.MaxDiscountPercent < 0 || *file.MaxDiscountPercent > 100 {
			return pricing, fmt.Errorf("pricing: max_discount_percent must be within 0..100")
		}
		pricing.MaxDiscountPercent = *file.MaxDiscountPercent
	}
	if file.PaidPayoutProbability != nil {
		p := *file.PaidPayoutProbability
		if p < 0 || p > 1 {
			return pricing, fmt.Errorf("pricing: paid_payout_probability must be within 0..1")
		}
		pricing.PaidPayoutProbability = p
	}

	return pricing, nil
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing: %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("pricing: %s must be non-negative", field)
	}
	return d, nil
}
