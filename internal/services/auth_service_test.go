package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"sparkletidy/internal/config"
	"sparkletidy/internal/testutil"
)

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sparkle-admin-1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAuthService(config.AuthConfig{
		AdminEmail:        "Owner@SparkleTidy.com",
		AdminPasswordHash: string(hash),
	})
	ctx := context.Background()

	t.Run("valid_credentials", func(t *testing.T) {
		email, err := svc.Authenticate(ctx, " owner@sparkletidy.com ", "sparkle-admin-1")
		testutil.AssertNoError(t, err)
		if email != "owner@sparkletidy.com" {
			t.Errorf("expected normalized admin email, got %q", email)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "owner@sparkletidy.com", "guess")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("wrong_email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "someone@sparkletidy.com", "sparkle-admin-1")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("login_disabled_without_hash", func(t *testing.T) {
		disabled := NewAuthService(config.AuthConfig{AdminEmail: "owner@sparkletidy.com"})
		_, err := disabled.Authenticate(ctx, "owner@sparkletidy.com", "")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
