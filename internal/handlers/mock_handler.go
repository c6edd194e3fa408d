package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/services"
)

// MockHandler handles demo data generation.
type MockHandler struct {
	mockService  services.MockServicer
	auditService services.AuditServicer
}

// NewMockHandler creates a new MockHandler.
func NewMockHandler(mockService services.MockServicer, auditService services.AuditServicer) *MockHandler {
	return &MockHandler{mockService: mockService, auditService: auditService}
}

// GenerateMockRequest represents the request payload for mock generation
type GenerateMockRequest struct {
	Count         int      `json:"count" binding:"required,min=1,max=500"`
	ContractorIDs []string `json:"contractor_ids" binding:"omitempty,max=100,dive,required,max=64"`
}

// GenerateMockResponse reports how many transactions were created
type GenerateMockResponse struct {
	Count int `json:"count"`
}

// GenerateMockTransactions fills the store with random demo transactions.
// @Summary     Generate mock transactions
// @Description Insert randomly generated transactions over the last 90 days
// @Tags        mock
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GenerateMockRequest true "How many to generate"
// @Success     201 {object} GenerateMockResponse "Transactions created"
// @Failure     400 {object} ErrorResponse "Invalid count"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /generate-mock-transactions [post]
func (h *MockHandler) GenerateMockTransactions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GenerateMockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	count, err := h.mockService.GenerateMockTransactions(c.Request.Context(), req.Count, req.ContractorIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, "GENERATE_MOCK_TRANSACTIONS", "transaction", "", c.ClientIP(),
		map[string]any{"count": count})

	c.JSON(http.StatusCreated, GenerateMockResponse{Count: count})
}
