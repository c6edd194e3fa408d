package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sparkletidy/internal/ledger"
)

const (
	summarySheet      = "summary"
	breakdownSheet    = "breakdown"
	transactionsSheet = "transactions"
)

// RenderXLSX renders a workbook with summary, breakdown and transaction sheets.
func RenderXLSX(report *ledger.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{breakdownSheet, transactionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", "Financial Report")
	_ = f.SetCellValue(summarySheet, "A2", "From")
	_ = f.SetCellValue(summarySheet, "B2", report.StartDate.UTC().Format(dateLayout))
	_ = f.SetCellValue(summarySheet, "A3", "To")
	_ = f.SetCellValue(summarySheet, "B3", report.EndDate.UTC().Format(dateLayout))
	for i, row := range summaryRows(report) {
		r := i + 5
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row[1])
	}

	_ = f.SetCellValue(breakdownSheet, "A1", "Service type")
	_ = f.SetCellValue(breakdownSheet, "B1", "Count")
	_ = f.SetCellValue(breakdownSheet, "C1", "Revenue")
	_ = f.SetCellValue(breakdownSheet, "D1", "Share (%)")
	for i, st := range breakdownOrder(report) {
		row := i + 2
		b := report.ServiceBreakdown[st]
		_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", row), string(st))
		_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", row), b.Count)
		_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("C%d", row), b.Revenue.InexactFloat64())
		_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("D%d", row), report.RevenueShare(st).InexactFloat64())
	}

	for col, name := range transactionHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(transactionsSheet, cell, name)
	}
	for i := range report.Transactions {
		for col, value := range transactionRow(&report.Transactions[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(transactionsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
