package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/middleware"
	"sparkletidy/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService  services.AuthServicer
	auditService services.AuditServicer
	tokens       *middleware.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer, auditService services.AuditServicer, tokens *middleware.TokenIssuer) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService, tokens: tokens}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles admin login
// @Summary     Login admin
// @Description Authenticate the admin and return a JWT token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Admin credentials"
// @Success     200 {object} AuthResponse "Login successful"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	email, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.auditService.Log(c.Request.Context(), req.Email, "LOGIN_FAILED", "admin", "", c.ClientIP(), nil)
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(c.Request.Context(), email, "LOGIN", "admin", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, AuthResponse{Token: token, ExpiresAt: expiresAt})
}
