package core

import "github.com/shopspring/decimal"

// Summary holds the derived totals over a transaction list.
// Income and Expense are both non-negative; Balance = Income - Expense.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryAmount is one entry of the per-category aggregate. Entries
// keep the order in which their category was first encountered so chart
// rendering stays deterministic.
type CategoryAmount struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// BudgetState classifies spending against the user's budget.
type BudgetState string

const (
	NoBudget     BudgetState = "no_budget"
	WithinBudget BudgetState = "within_budget"
	Exceeded     BudgetState = "exceeded"
)

// BudgetAlert is the derived budget status. Remaining is set when within
// budget, Overage when exceeded; both are zero in the NoBudget state.
type BudgetAlert struct {
	State     BudgetState     `json:"state"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
	Overage   decimal.Decimal `json:"overage"`
}

// EvaluateBudget computes the alert state from an optional limit and the
// current expense total. It holds no history; callers recompute it after
// every transaction or budget mutation.
func EvaluateBudget(limit *decimal.Decimal, expense decimal.Decimal) BudgetAlert {
	if limit == nil {
		return BudgetAlert{State: NoBudget}
	}
	if expense.GreaterThan(*limit) {
		return BudgetAlert{
			State:   Exceeded,
			Limit:   *limit,
			Overage: expense.Sub(*limit),
		}
	}
	return BudgetAlert{
		State:     WithinBudget,
		Limit:     *limit,
		Remaining: limit.Sub(expense),
	}
}
