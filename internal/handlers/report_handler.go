package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/export"
	"sparkletidy/internal/models"
	"sparkletidy/internal/services"
)

// ReportHandler handles financial report requests.
type ReportHandler struct {
	reportService services.ReportServicer
	exportService services.ExportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, exportService services.ExportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// reportQuery holds the report range and optional filters.
type reportQuery struct {
	StartDate     string               `form:"startDate"`
	EndDate       string               `form:"endDate"`
	ServiceType   models.ServiceType   `form:"serviceType" binding:"omitempty,service_type"`
	PaymentMethod models.PaymentMethod `form:"paymentMethod" binding:"omitempty,payment_method"`
	Format        string               `form:"format"`
}

// GetFinancialReport returns the financial summary for a date range.
// @Summary     Financial report
// @Description Aggregate revenue, refunds, tax, discounts and payouts over a date range
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       startDate     query string true  "Range start (YYYY-MM-DD or RFC3339)"
// @Param       endDate       query string true  "Range end, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       serviceType   query string false "Service type"
// @Param       paymentMethod query string false "Payment method"
// @Success     200 {object} ledger.Report "Financial report"
// @Failure     400 {object} ErrorResponse "Missing dates or invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /financial-reports [get]
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	req, _, err := bindReportQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportFinancialReport downloads the financial report as CSV, XLSX or PDF.
// @Summary     Export financial report
// @Description Render the financial report as a downloadable document
// @Tags        reports
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       startDate     query string true  "Range start (YYYY-MM-DD or RFC3339)"
// @Param       endDate       query string true  "Range end, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       serviceType   query string false "Service type"
// @Param       paymentMethod query string false "Payment method"
// @Param       format        query string false "csv (default), xlsx or pdf"
// @Success     200 {file} file "Report document"
// @Failure     400 {object} ErrorResponse "Missing dates, invalid range or unsupported format"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /financial-reports/export [get]
func (h *ReportHandler) ExportFinancialReport(c *gin.Context) {
	req, q, err := bindReportQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnsupportedFormat, err.Error()))
		return
	}

	doc, err := h.exportService.ExportReport(c.Request.Context(), req, format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func bindReportQuery(c *gin.Context) (services.ReportRequest, reportQuery, error) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.ReportRequest{}, q, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if q.StartDate == "" || q.EndDate == "" {
		return services.ReportRequest{}, q, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate and endDate are required")
	}

	start, err := parseRangeStart("startDate", q.StartDate)
	if err != nil {
		return services.ReportRequest{}, q, err
	}
	end, err := parseRangeEnd("endDate", q.EndDate)
	if err != nil {
		return services.ReportRequest{}, q, err
	}

	req := services.ReportRequest{StartDate: start, EndDate: end}
	if q.ServiceType != "" {
		req.ServiceType = &q.ServiceType
	}
	if q.PaymentMethod != "" {
		req.PaymentMethod = &q.PaymentMethod
	}
	return req, q, nil
}
