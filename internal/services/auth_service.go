package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sparkletidy/internal/config"
	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/logger"
)

// authService checks the single admin credential from configuration.
type authService struct {
	email        string
	passwordHash []byte
}

// NewAuthService creates a new AuthServicer. The password is only ever held
// as a bcrypt hash; an empty hash disables admin login.
func NewAuthService(cfg config.AuthConfig) AuthServicer {
	if cfg.AdminPasswordHash == "" {
		logger.Get().Warn("ADMIN_PASSWORD_HASH is not set; admin login is disabled")
	}
	return &authService{
		email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
	}
}

// Authenticate returns the admin email when the credential matches.
func (s *authService) Authenticate(_ context.Context, email, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", apperrors.ErrInvalidCredentials
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	// Always run bcrypt so a wrong email costs the same as a wrong password.
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil

	if !emailOK || !passwordOK {
		return "", apperrors.ErrInvalidCredentials
	}
	return s.email, nil
}
