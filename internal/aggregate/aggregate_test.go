package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

func tx(text, category string, amount string) core.Transaction {
	a, err := core.ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		Text:     text,
		Category: category,
		Amount:   a,
		Date:     core.NewDate(2024, 1, 1),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Income.IsZero() || !s.Expense.IsZero() || !s.Balance.IsZero() {
		t.Fatalf("expected all zero, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	txs := []core.Transaction{
		tx("Salary", "Income", "1000"),
		tx("Coffee", "Food", "-50"),
		tx("Groceries", "Food", "-120.50"),
	}
	s := Summarize(txs)
	if core.FormatAmount(s.Income) != "1000.00" {
		t.Errorf("income = %s", core.FormatAmount(s.Income))
	}
	if core.FormatAmount(s.Expense) != "170.50" {
		t.Errorf("expense = %s", core.FormatAmount(s.Expense))
	}
	if core.FormatAmount(s.Balance) != "829.50" {
		t.Errorf("balance = %s", core.FormatAmount(s.Balance))
	}
	if !s.Balance.Equal(s.Income.Sub(s.Expense)) {
		t.Error("balance != income - expense")
	}
}

func TestByCategoryOrderAndTotals(t *testing.T) {
	txs := []core.Transaction{
		tx("Coffee", "Food", "-50"),
		tx("Bus", "Transport", "-3"),
		tx("Dinner", "Food", "-30"),
		tx("Mystery", "", "-7"),
	}
	agg := ByCategory(txs)
	if len(agg) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(agg))
	}
	// first-encounter order
	if agg[0].Name != "Food" || agg[1].Name != "Transport" || agg[2].Name != core.DefaultCategory {
		t.Fatalf("unexpected order: %v", agg)
	}
	if core.FormatAmount(agg[0].Total) != "80.00" {
		t.Errorf("Food total = %s", core.FormatAmount(agg[0].Total))
	}

	// totals sum to the sum of absolute amounts, nothing lost or doubled
	sum := decimal.Zero
	for _, ca := range agg {
		sum = sum.Add(ca.Total)
	}
	want := decimal.Zero
	for _, t := range txs {
		want = want.Add(t.Amount.Abs())
	}
	if !sum.Equal(want) {
		t.Fatalf("aggregate sum %s != absolute sum %s", sum, want)
	}
}

func TestTopCategory(t *testing.T) {
	agg := ByCategory([]core.Transaction{
		tx("Coffee", "Food", "-50"),
		tx("Salary", "Income", "1000"),
		tx("Rent", "Home", "-1000"),
	})
	top, ok := TopCategory(agg)
	if !ok {
		t.Fatal("expected a top category")
	}
	// Income and Home tie at 1000; Income was encountered first
	if top.Name != "Income" {
		t.Fatalf("expected Income, got %s", top.Name)
	}

	if _, ok := TopCategory(nil); ok {
		t.Fatal("empty aggregate should report no top category")
	}
}

func TestShares(t *testing.T) {
	agg := ByCategory([]core.Transaction{
		tx("a", "Food", "-75"),
		tx("b", "Transport", "-25"),
	})
	shares := Shares(agg)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	if shares[0].Percent.String() != "75" || shares[1].Percent.String() != "25" {
		t.Fatalf("unexpected shares: %v", shares)
	}
}

func TestSharesZeroTotal(t *testing.T) {
	shares := Shares([]core.CategoryAmount{{Name: "Food"}})
	if len(shares) != 1 || !shares[0].Percent.IsZero() {
		t.Fatalf("zero total should yield zero percentages, got %v", shares)
	}
}

func TestFilter(t *testing.T) {
	txs := []core.Transaction{
		tx("Coffee", "Food", "-50"),
		tx("Salary", "Income", "1000"),
		tx("Taxi ride", "Transport", "-12.30"),
		tx("No category", "", "-5"),
	}

	cases := []struct {
		name     string
		query    string
		category string
		want     int
	}{
		{"empty matches everything", "", "", 4},
		{"query on description", "coff", "", 1},
		{"query is case-insensitive", "SALARY", "", 1},
		{"query on category", "transp", "", 1},
		{"query on amount", "12.30", "", 1},
		{"category exact", "", "Food", 1},
		{"category Other matches uncategorized", "", core.DefaultCategory, 1},
		{"conjunctive", "a", "Transport", 1},
		{"conjunctive no match", "coffee", "Income", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(txs, tc.query, tc.category)
			if len(got) != tc.want {
				t.Fatalf("expected %d results, got %d", tc.want, len(got))
			}
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	txs := []core.Transaction{
		tx("Coffee", "Food", "-50"),
		tx("Salary", "Income", "1000"),
	}
	once := Filter(txs, "o", "")
	twice := Filter(once, "o", "")
	if len(once) != len(twice) {
		t.Fatalf("filter is not idempotent: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Text != twice[i].Text {
			t.Fatalf("entry %d changed: %s != %s", i, once[i].Text, twice[i].Text)
		}
	}
}

func TestCategories(t *testing.T) {
	txs := []core.Transaction{
		tx("a", "Food", "-1"),
		tx("b", "", "-1"),
		tx("c", "Food", "-1"),
		tx("d", "Transport", "-1"),
	}
	got := Categories(txs)
	want := []string{"Food", core.DefaultCategory, "Transport"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
