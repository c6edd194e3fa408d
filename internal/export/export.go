// Package export renders financial reports as downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"

	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
)

// Format is a document format for report downloads.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts a format name case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Document is a rendered report.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Render renders report in the given format.
func Render(report *ledger.Report, format Format) (*Document, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = RenderCSV(report)
	case FormatXLSX:
		body, err = RenderXLSX(report)
	case FormatPDF:
		body, err = RenderPDF(report)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &Document{
		Filename:    Filename(report, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// Filename names a report download after its date range.
func Filename(report *ledger.Report, format Format) string {
	return fmt.Sprintf("financial-report_%s_%s.%s",
		report.StartDate.UTC().Format(dateLayout),
		report.EndDate.UTC().Format(dateLayout),
		format)
}

const dateLayout = "2006-01-02"

var transactionHeader = []string{
	"transaction_id", "date", "client_name", "client_email", "service_type",
	"amount", "payment_method", "status", "tax_amount", "discount_amount",
	"contractor_id", "contractor_payout", "payout_status", "refund_amount",
	"refund_reason",
}

func transactionRow(tx *models.Transaction) []string {
	contractor := ""
	if tx.ContractorID != nil {
		contractor = *tx.ContractorID
	}
	return []string{
		tx.TransactionID,
		tx.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		tx.ClientName,
		tx.ClientEmail,
		string(tx.ServiceType),
		tx.Amount.StringFixed(2),
		string(tx.PaymentMethod),
		string(tx.Status),
		tx.TaxAmount.StringFixed(2),
		tx.DiscountAmount.StringFixed(2),
		contractor,
		tx.ContractorPayout.StringFixed(2),
		string(tx.PayoutStatus),
		tx.RefundAmount.StringFixed(2),
		tx.RefundReason,
	}
}

// summaryRows lists the report totals as label/value pairs.
func summaryRows(report *ledger.Report) [][2]string {
	s := report.Summary
	return [][2]string{
		{"Total revenue", s.TotalRevenue.StringFixed(2)},
		{"Total refunds", s.TotalRefunds.StringFixed(2)},
		{"Net revenue", s.NetRevenue.StringFixed(2)},
		{"Total tax", s.TotalTax.StringFixed(2)},
		{"Total discounts", s.TotalDiscounts.StringFixed(2)},
		{"Contractor payouts", s.TotalPayouts.StringFixed(2)},
		{"Gross profit", s.GrossProfit.StringFixed(2)},
		{"Transactions", fmt.Sprintf("%d", s.TransactionCount)},
	}
}

// breakdownOrder returns the service types present in the breakdown in
// display order.
func breakdownOrder(report *ledger.Report) []models.ServiceType {
	var out []models.ServiceType
	for _, st := range models.ServiceTypes {
		if _, ok := report.ServiceBreakdown[st]; ok {
			out = append(out, st)
		}
	}
	return out
}
