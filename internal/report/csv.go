// Package report serializes transaction lists for export and print.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"tally/internal/core"
)

var csvHeader = []string{"Date", "Category", "Description", "Amount"}

// CSV renders the export file: a header row, then one row per
// transaction oldest first (the reverse of display order). Fields with
// embedded commas or quotes are escaped per RFC 4180; amounts keep their
// sign and carry no currency symbol.
func CSV(txs []core.Transaction) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		row := []string{t.Date.String(), t.Category, t.Text, t.Amount.String()}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// ExportFilename is the suggested download name, stamped with the
// current date.
func ExportFilename() string {
	return fmt.Sprintf("expense_report_%s.csv", time.Now().Format("2006-01-02"))
}
