package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"tally/internal/aggregate"
	"tally/internal/core"
)

var printTemplate = template.Must(template.New("report").Parse(`<html><head><title>Expense Report</title>
<style>body{font-family:Arial;padding:20px} table{width:100%;border-collapse:collapse} td,th{border:1px solid #ddd;padding:6px}</style>
</head><body>
<h2>Expense Report</h2>
<p>Date: {{.Generated}}</p>
<p>Income: {{.Income}} &nbsp;&nbsp; Expense: {{.Expense}} &nbsp;&nbsp; Balance: {{.Balance}}</p>
<table><thead><tr><th>Date</th><th>Category</th><th>Description</th><th>Amount</th></tr></thead><tbody>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td>{{.Category}}</td><td>{{.Text}}</td><td style="text-align:right;">{{.Amount}}</td></tr>
{{- end}}
</tbody></table>
</body></html>
`))

type printRow struct {
	Date     string
	Category string
	Text     string
	Amount   string
}

type printData struct {
	Generated string
	Income    string
	Expense   string
	Balance   string
	Rows      []printRow
}

// Printable renders the tabular report document in display order
// (newest first) with the summary totals in the header.
func Printable(txs []core.Transaction) (string, error) {
	summary := aggregate.Summarize(txs)

	data := printData{
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Income:    core.FormatAmount(summary.Income),
		Expense:   core.FormatAmount(summary.Expense),
		Balance:   core.FormatAmount(summary.Balance),
		Rows:      make([]printRow, len(txs)),
	}
	for i, t := range txs {
		data.Rows[i] = printRow{
			Date:     t.Date.String(),
			Category: t.Category,
			Text:     t.Text,
			Amount:   t.Amount.String(),
		}
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
