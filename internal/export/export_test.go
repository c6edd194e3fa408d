package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sparkletidy/internal/ledger"
	"sparkletidy/internal/models"
)

func sampleReport() *ledger.Report {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	contractor := "ctr-7"
	txs := []models.Transaction{
		{
			TransactionID: "t1", Date: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			ClientName: "Avery Johnson", ClientEmail: "avery@example.com",
			ServiceType: models.ServiceTypeStandard, Amount: decimal.NewFromInt(120),
			PaymentMethod: models.PaymentMethodCash, Status: models.TransactionStatusCompleted,
			TaxAmount: decimal.RequireFromString("9.90"), ContractorID: &contractor,
			ContractorPayout: decimal.NewFromInt(84), PayoutStatus: models.PayoutStatusPaid,
		},
		{
			TransactionID: "t2", Date: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
			ClientName: "Jordan Lee", ClientEmail: "jordan@example.com",
			ServiceType: models.ServiceTypeDeep, Amount: decimal.NewFromInt(200),
			PaymentMethod: models.PaymentMethodCreditCard, Status: models.TransactionStatusRefunded,
			RefundAmount: decimal.NewFromInt(200), RefundReason: "Appointment cancelled, by client",
			PayoutStatus: models.PayoutStatusPending,
		},
	}
	return ledger.BuildReport(ledger.ReportCriteria{StartDate: start, EndDate: end}, txs)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatCSV},
		{"CSV", FormatCSV},
		{"xlsx", FormatXLSX},
		{" pdf ", FormatPDF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRenderCSV(t *testing.T) {
	body, err := RenderCSV(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"Net revenue,-80.00",
		"Gross profit,-164.00",
		"standard,1,120.00,100.0",
		"t2,2024-03-06T09:00:00Z,Jordan Lee",
		`"Appointment cancelled, by client"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\ndeep,") {
		t.Error("breakdown must not list service types without completed revenue")
	}
}

func TestRenderXLSX(t *testing.T) {
	body, err := RenderXLSX(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(summarySheet, "B7"); got != "-80.00" {
		t.Errorf("expected net revenue -80.00 in B7, got %q", got)
	}
	if got, _ := f.GetCellValue(breakdownSheet, "A2"); got != "standard" {
		t.Errorf("expected standard in breakdown, got %q", got)
	}
	if got, _ := f.GetCellValue(transactionsSheet, "A2"); got != "t2" {
		t.Errorf("expected newest transaction first, got %q", got)
	}
}

func TestRenderPDF(t *testing.T) {
	body, err := RenderPDF(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRender_EmptyReport(t *testing.T) {
	empty := ledger.BuildReport(ledger.ReportCriteria{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}, nil)

	for _, format := range []Format{FormatCSV, FormatXLSX, FormatPDF} {
		t.Run(string(format), func(t *testing.T) {
			doc, err := Render(empty, format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(doc.Body) == 0 {
				t.Error("expected a non-empty document")
			}
			if doc.Filename != "financial-report_2024-01-01_2024-01-31."+string(format) {
				t.Errorf("unexpected filename %q", doc.Filename)
			}
			if doc.ContentType != format.ContentType() {
				t.Errorf("unexpected content type %q", doc.ContentType)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render(sampleReport(), Format("docx")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
