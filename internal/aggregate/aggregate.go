// Package aggregate derives summaries from transaction lists.
//
// Everything here is a pure function: no stored state, no side effects.
// Results are recomputed from the full list on every render.
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

// Share is one category's slice of the spending pie, in percent.
type Share struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
}

// Summarize computes income, expense and balance totals. Income sums the
// positive amounts, expense the absolute values of the negative ones, so
// balance = income - expense always holds.
func Summarize(txs []core.Transaction) core.Summary {
	var s core.Summary
	for _, t := range txs {
		if t.Amount.IsPositive() {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount.Abs())
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// ByCategory sums absolute amounts per category. Entries appear in the
// order their category is first encountered in the input, which keeps
// chart rendering deterministic. Empty categories count as
// core.DefaultCategory.
func ByCategory(txs []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int, len(txs))
	var out []core.CategoryAmount
	for _, t := range txs {
		cat := t.NormalizedCategory()
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, core.CategoryAmount{Name: cat})
		}
		out[i].Total = out[i].Total.Add(t.Amount.Abs())
	}
	return out
}

// TopCategory returns the largest entry of an aggregate. Ties keep the
// first maximal entry in iteration order. ok is false for an empty
// aggregate.
func TopCategory(agg []core.CategoryAmount) (top core.CategoryAmount, ok bool) {
	for i, ca := range agg {
		if i == 0 || ca.Total.GreaterThan(top.Total) {
			top = ca
		}
	}
	return top, len(agg) > 0
}

// Shares converts an aggregate into percentages of the grand total,
// preserving entry order. A zero grand total is treated as 1 so the
// result is all zeros instead of a division by zero.
func Shares(agg []core.CategoryAmount) []Share {
	total := decimal.Zero
	for _, ca := range agg {
		total = total.Add(ca.Total)
	}
	if total.IsZero() {
		total = decimal.NewFromInt(1)
	}
	hundred := decimal.NewFromInt(100)
	out := make([]Share, len(agg))
	for i, ca := range agg {
		out[i] = Share{
			Name:    ca.Name,
			Percent: ca.Total.Mul(hundred).DivRound(total, 1),
		}
	}
	return out
}

// Filter returns the transactions matching both conditions: the query is
// empty or a case-insensitive substring of the description, category or
// two-decimal amount, and the category is empty or equal to the
// transaction's (normalized) category. Empty inputs match everything.
func Filter(txs []core.Transaction, query, category string) []core.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if q != "" {
			text := strings.ToLower(t.Text)
			cat := strings.ToLower(t.Category)
			amount := core.FormatAmount(t.Amount)
			if !strings.Contains(text, q) && !strings.Contains(cat, q) && !strings.Contains(amount, q) {
				continue
			}
		}
		if category != "" && t.NormalizedCategory() != category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories lists the distinct normalized categories in first-encounter
// order. It feeds the category filter options.
func Categories(txs []core.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	var out []string
	for _, t := range txs {
		cat := t.NormalizedCategory()
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}
