package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	t.Setenv("ADMIN_EMAIL", "Owner@SparkleTidy.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.Auth.JWTExpiration != 12*time.Hour {
		t.Errorf("expected 12h fallback, got %s", cfg.Auth.JWTExpiration)
	}
	if cfg.Auth.AdminEmail != "owner@sparkletidy.com" {
		t.Errorf("expected lowercased admin email, got %q", cfg.Auth.AdminEmail)
	}
}

func TestValidate(t *testing.T) {
	t.Run("rejects_unknown_driver", func(t *testing.T) {
		cfg := &Config{StoreDriver: "mongo"}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})

	t.Run("rejects_fallback_secret_in_production", func(t *testing.T) {
		cfg := &Config{
			Env:         "production",
			StoreDriver: StoreDriverBolt,
			Auth:        AuthConfig{JWTSecret: "fallback-secret-key-for-dev-only"},
		}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for fallback secret in production")
		}
	})

	t.Run("accepts_sqlite", func(t *testing.T) {
		cfg := &Config{StoreDriver: StoreDriverSQLite}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestLoadPricing(t *testing.T) {
	t.Run("empty_path_returns_defaults", func(t *testing.T) {
		p, err := LoadPricing("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.BasePrice(models.ServiceTypeCommercial).Equal(decimal.NewFromInt(350)) {
			t.Errorf("expected default commercial price, got %s", p.BasePrice(models.ServiceTypeCommercial))
		}
	})

	t.Run("overrides_from_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricing.yaml")
		content := `
base_prices:
  deep: "225.00"
max_jitter: 20
tax_rate: "0.07"
paid_payout_probability: 0.5
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		p, err := LoadPricing(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.BasePrice(models.ServiceTypeDeep).Equal(decimal.NewFromInt(225)) {
			t.Errorf("expected deep price 225, got %s", p.BasePrice(models.ServiceTypeDeep))
		}
		if !p.BasePrice(models.ServiceTypeStandard).Equal(decimal.NewFromInt(120)) {
			t.Errorf("standard price should keep its default, got %s", p.BasePrice(models.ServiceTypeStandard))
		}
		if p.MaxJitter != 20 {
			t.Errorf("expected jitter 20, got %d", p.MaxJitter)
		}
		if !p.TaxRate.Equal(decimal.RequireFromString("0.07")) {
			t.Errorf("expected tax rate 0.07, got %s", p.TaxRate)
		}
		if p.PaidPayoutProbability != 0.5 {
			t.Errorf("expected probability 0.5, got %v", p.PaidPayoutProbability)
		}
		if p.MaxDiscountPercent != ledger.DefaultPricing().MaxDiscountPercent {
			t.Errorf("discount percent should keep its default, got %d", p.MaxDiscountPercent)
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := LoadPricing(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func TestParsePricing_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown_service_type", "base_prices:\n  windows: \"10\"\n"},
		{"negative_price", "base_prices:\n  deep: \"-1\"\n"},
		{"bad_decimal", "tax_rate: \"eight\"\n"},
		{"payout_rate_above_one", "payout_rate: \"1.5\"\n"},
		{"discount_out_of_range", "max_discount_percent: 150\n"},
		{"probability_out_of_range", "paid_payout_probability: 2\n"},
		{"negative_jitter", "max_jitter: -5\n"},
		{"malformed_yaml", "base_prices: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePricing([]byte(tt.yaml)); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}
