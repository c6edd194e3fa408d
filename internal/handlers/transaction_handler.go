package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Money fields are decimal strings or numbers with at most two fractional digits.
type CreateTransactionRequest struct {
	TransactionID    string                   `json:"transaction_id" binding:"max=64"`
	Date             *string                  `json:"date"`
	ClientName       string                   `json:"client_name" binding:"max=255"`
	ClientEmail      string                   `json:"client_email" binding:"omitempty,email,max=255"`
	ServiceType      models.ServiceType       `json:"service_type" binding:"required,service_type"`
	Amount           *decimal.Decimal         `json:"amount" swaggertype:"string" binding:"omitempty,money"`
	PaymentMethod    models.PaymentMethod     `json:"payment_method" binding:"required,payment_method"`
	Status           models.TransactionStatus `json:"status" binding:"omitempty,transaction_status"`
	TaxAmount        *decimal.Decimal         `json:"tax_amount" swaggertype:"string" binding:"omitempty,money"`
	DiscountAmount   *decimal.Decimal         `json:"discount_amount" swaggertype:"string" binding:"omitempty,money"`
	ContractorID     *string                  `json:"contractor_id" binding:"omitempty,max=64"`
	ContractorPayout *decimal.Decimal         `json:"contractor_payout" swaggertype:"string" binding:"omitempty,money"`
	PayoutStatus     models.PayoutStatus      `json:"payout_status" binding:"omitempty,payout_status"`
	RefundAmount     *decimal.Decimal         `json:"refund_amount" swaggertype:"string" binding:"omitempty,money"`
	RefundReason     string                   `json:"refund_reason" binding:"max=500"`
	Notes            string                   `json:"notes" binding:"max=2000"`
}

// UpdateTransactionRequest represents a partial update. Omitted fields are left
// unchanged; an empty contractor_id clears the contractor.
type UpdateTransactionRequest struct {
	Date             *string                   `json:"date"`
	ClientName       *string                   `json:"client_name" binding:"omitempty,max=255"`
	ClientEmail      *string                   `json:"client_email" binding:"omitempty,email,max=255"`
	ServiceType      *models.ServiceType       `json:"service_type" binding:"omitempty,service_type"`
	Amount           *decimal.Decimal          `json:"amount" swaggertype:"string" binding:"omitempty,money"`
	PaymentMethod    *models.PaymentMethod     `json:"payment_method" binding:"omitempty,payment_method"`
	Status           *models.TransactionStatus `json:"status" binding:"omitempty,transaction_status"`
	TaxAmount        *decimal.Decimal          `json:"tax_amount" swaggertype:"string" binding:"omitempty,money"`
	DiscountAmount   *decimal.Decimal          `json:"discount_amount" swaggertype:"string" binding:"omitempty,money"`
	ContractorID     *string                   `json:"contractor_id" binding:"omitempty,max=64"`
	ContractorPayout *decimal.Decimal          `json:"contractor_payout" swaggertype:"string" binding:"omitempty,money"`
	PayoutStatus     *models.PayoutStatus      `json:"payout_status" binding:"omitempty,payout_status"`
	RefundAmount     *decimal.Decimal          `json:"refund_amount" swaggertype:"string" binding:"omitempty,money"`
	RefundReason     *string                   `json:"refund_reason" binding:"omitempty,max=500"`
	Notes            *string                   `json:"notes" binding:"omitempty,max=2000"`
	ExpectedVersion  *int                      `json:"expected_version" binding:"omitempty,min=1"`
}

// RefundRequest represents the request payload for recording a refund.
// An omitted amount refunds the full transaction amount.
type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount" swaggertype:"string" binding:"omitempty,money"`
	Reason string           `json:"reason" binding:"max=500"`
}

// PayoutRequest represents the request payload for changing payout status.
type PayoutRequest struct {
	PayoutStatus models.PayoutStatus `json:"payout_status" binding:"required,payout_status"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

// listTransactionsQuery holds the optional query filters for listing.
type listTransactionsQuery struct {
	StartDate     string                   `form:"startDate"`
	EndDate       string                   `form:"endDate"`
	Status        models.TransactionStatus `form:"status" binding:"omitempty,transaction_status"`
	ServiceType   models.ServiceType       `form:"serviceType" binding:"omitempty,service_type"`
	PaymentMethod models.PaymentMethod     `form:"paymentMethod" binding:"omitempty,payment_method"`
	ContractorID  string                   `form:"contractorId"`
	ClientEmail   string                   `form:"clientEmail"`
}

// CreateTransaction handles the creation of a new transaction by an admin.
// @Summary     Create a transaction
// @Description Record a billable service transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate transaction id"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	h.create(c, "CREATE_TRANSACTION")
}

// IntakeTransaction records a transaction submitted by the booking site.
// @Summary     Submit a booking transaction
// @Description Record a transaction from the public booking site
// @Tags        intake
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violation"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     409 {object} ErrorResponse "Duplicate transaction id"
// @Failure     503 {object} ErrorResponse "Store unavailable or intake not configured"
// @Router      /intake/transactions [post]
func (h *TransactionHandler) IntakeTransaction(c *gin.Context) {
	h.create(c, "INTAKE_TRANSACTION")
}

func (h *TransactionHandler) create(c *gin.Context, action string) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Amount == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is required"))
		return
	}

	input := services.CreateTransactionInput{
		TransactionID:    req.TransactionID,
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ServiceType:      req.ServiceType,
		Amount:           *req.Amount,
		PaymentMethod:    req.PaymentMethod,
		Status:           req.Status,
		TaxAmount:        decimalOrZero(req.TaxAmount),
		DiscountAmount:   decimalOrZero(req.DiscountAmount),
		ContractorID:     req.ContractorID,
		ContractorPayout: decimalOrZero(req.ContractorPayout),
		PayoutStatus:     req.PayoutStatus,
		RefundAmount:     decimalOrZero(req.RefundAmount),
		RefundReason:     req.RefundReason,
		Notes:            req.Notes,
	}
	if req.Date != nil && *req.Date != "" {
		date, _, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		input.Date = date
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, action, "transaction", tx.TransactionID, c.ClientIP(),
		map[string]any{"service_type": tx.ServiceType, "amount": tx.Amount.String(), "status": tx.Status})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions returns a filtered page of transactions, newest first.
// @Summary     List transactions
// @Description Query transactions by date range and attributes, ordered by date descending
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate     query string false "Range start (YYYY-MM-DD or RFC3339)"
// @Param       endDate       query string false "Range end, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       status        query string false "Transaction status"
// @Param       serviceType   query string false "Service type"
// @Param       paymentMethod query string false "Payment method"
// @Param       contractorId  query string false "Contractor id"
// @Param       clientEmail   query string false "Client email"
// @Param       page          query int    false "Page number"
// @Param       page_size     query int    false "Page size"
// @Param       limit         query int    false "Page size alias"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := repository.TransactionFilter{
		ContractorID: q.ContractorID,
		ClientEmail:  q.ClientEmail,
	}
	if q.StartDate != "" {
		from, err := parseRangeStart("startDate", q.StartDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		to, err := parseRangeEnd("endDate", q.EndDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.To = &to
	}
	if q.Status != "" {
		filter.Status = &q.Status
	}
	if q.ServiceType != "" {
		filter.ServiceType = &q.ServiceType
	}
	if q.PaymentMethod != "" {
		filter.PaymentMethod = &q.PaymentMethod
	}

	result, err := h.transactionService.QueryTransactions(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction returns a single transaction.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction applies a partial update to a transaction.
// @Summary     Update a transaction
// @Description Merge the supplied fields into the stored transaction and re-validate it
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Version conflict"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := ledger.TransactionUpdate{
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ServiceType:      req.ServiceType,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		Status:           req.Status,
		TaxAmount:        req.TaxAmount,
		DiscountAmount:   req.DiscountAmount,
		ContractorID:     req.ContractorID,
		ContractorPayout: req.ContractorPayout,
		PayoutStatus:     req.PayoutStatus,
		RefundAmount:     req.RefundAmount,
		RefundReason:     req.RefundReason,
		Notes:            req.Notes,
		ExpectedVersion:  req.ExpectedVersion,
	}
	if req.Date != nil {
		date, _, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.Date = &date
	}

	id := c.Param("id")
	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, "UPDATE_TRANSACTION", "transaction", id, c.ClientIP(), update.Changes())

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction permanently removes a transaction.
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, "DELETE_TRANSACTION", "transaction", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// RecordRefund marks a transaction refunded.
// @Summary     Record a refund
// @Description Set status to refunded with the given amount (full amount when omitted)
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Transaction ID"
// @Param       request body RefundRequest true "Refund details"
// @Success     200 {object} TransactionResponse "Refunded transaction"
// @Failure     400 {object} ErrorResponse "Refund exceeds amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Version conflict"
// @Router      /transactions/{id}/refund [post]
func (h *TransactionHandler) RecordRefund(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	id := c.Param("id")
	tx, err := h.transactionService.RecordRefund(c.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, "REFUND_TRANSACTION", "transaction", id, c.ClientIP(),
		map[string]any{"refund_amount": tx.RefundAmount.String(), "refund_reason": tx.RefundReason})

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// SetPayoutStatus changes the contractor payout status of a transaction.
// @Summary     Set payout status
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Transaction ID"
// @Param       request body PayoutRequest true "New payout status"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid payout status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/payout [put]
func (h *TransactionHandler) SetPayoutStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	id := c.Param("id")
	tx, err := h.transactionService.SetPayoutStatus(c.Request.Context(), id, req.PayoutStatus)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor, "SET_PAYOUT_STATUS", "transaction", id, c.ClientIP(),
		map[string]any{"payout_status": req.PayoutStatus})

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
