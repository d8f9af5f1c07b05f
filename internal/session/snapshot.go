package session

import (
	"context"

	"tally/internal/aggregate"
	"tally/internal/core"
)

// Snapshot is everything the presentation layer needs for one render:
// the filtered view, totals and aggregates over the full list, and the
// budget alert state. It is recomputed from persisted state on every
// call, never cached here.
type Snapshot struct {
	Session      *core.Session         `json:"session,omitempty"`
	Transactions []core.Transaction    `json:"transactions"`
	Count        int                   `json:"count"`
	Summary      core.Summary          `json:"summary"`
	Aggregate    []core.CategoryAmount `json:"aggregate"`
	Shares       []aggregate.Share     `json:"shares"`
	TopCategory  *core.CategoryAmount  `json:"top_category,omitempty"`
	Categories   []string              `json:"categories"`
	Budget       core.BudgetAlert      `json:"budget"`
}

// Snapshot derives the render data for the active user, restricted to
// the given search query and category filter. Totals, aggregates and the
// budget check always cover the full list; only the transaction view is
// filtered. Without a session it returns the logged-out snapshot.
func (c *Controller) Snapshot(ctx context.Context, query, category string) (Snapshot, error) {
	session, ok := c.Session()
	if !ok {
		return Snapshot{
			Transactions: []core.Transaction{},
			Budget:       core.BudgetAlert{State: core.NoBudget},
		}, nil
	}

	txs, err := c.ledger.List(ctx, session.Username)
	if err != nil {
		return Snapshot{}, err
	}
	limit, err := c.ledger.Budget(ctx, session.Username)
	if err != nil {
		return Snapshot{}, err
	}

	summary := aggregate.Summarize(txs)
	agg := aggregate.ByCategory(txs)
	view := aggregate.Filter(txs, query, category)

	snap := Snapshot{
		Session:      &session,
		Transactions: view,
		Count:        len(view),
		Summary:      summary,
		Aggregate:    agg,
		Shares:       aggregate.Shares(agg),
		Categories:   aggregate.Categories(txs),
		Budget:       core.EvaluateBudget(limit, summary.Expense),
	}
	if top, ok := aggregate.TopCategory(agg); ok {
		snap.TopCategory = &top
	}
	return snap, nil
}
