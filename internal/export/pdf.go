package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"sparkletidy/internal/ledger"
)

// RenderPDF renders a one-document summary with the breakdown table and a
// condensed transaction list.
func RenderPDF(report *ledger.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Sparkle Tidy Financial Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		report.StartDate.UTC().Format(dateLayout), report.EndDate.UTC().Format(dateLayout)))
	pdf.Ln(5)
	if report.ServiceType != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Service type: %s", *report.ServiceType))
		pdf.Ln(5)
	}
	if report.PaymentMethod != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Payment method: %s", *report.PaymentMethod))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	for _, row := range summaryRows(report) {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Service type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Revenue", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Share", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, st := range breakdownOrder(report) {
		b := report.ServiceBreakdown[st]
		pdf.CellFormat(50, 6, string(st), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(b.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, b.Revenue.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, report.RevenueShare(st).StringFixed(1)+"%", "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Client", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Service", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Refund", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for i := range report.Transactions {
		tx := &report.Transactions[i]
		pdf.CellFormat(25, 6, tx.Date.UTC().Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tx.ClientName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, string(tx.ServiceType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, string(tx.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, tx.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, tx.RefundAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
