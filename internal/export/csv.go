package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"sparkletidy/internal/ledger"
)

// RenderCSV writes the summary, the service breakdown and the transaction
// list as three blocks separated by blank lines.
func RenderCSV(report *ledger.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Financial report", report.StartDate.UTC().Format(dateLayout), report.EndDate.UTC().Format(dateLayout)})
	for _, row := range summaryRows(report) {
		_ = w.Write([]string{row[0], row[1]})
	}

	_ = w.Write(nil)
	_ = w.Write([]string{"service_type", "count", "revenue", "revenue_share_percent"})
	for _, st := range breakdownOrder(report) {
		b := report.ServiceBreakdown[st]
		_ = w.Write([]string{string(st), strconv.Itoa(b.Count), b.Revenue.StringFixed(2), report.RevenueShare(st).StringFixed(1)})
	}

	_ = w.Write(nil)
	_ = w.Write(transactionHeader)
	for i := range report.Transactions {
		_ = w.Write(transactionRow(&report.Transactions[i]))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
