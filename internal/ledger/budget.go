package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/kv"
)

// SetBudget overwrites the user's spending limit. Limits must be
// strictly positive.
func (s *Store) SetBudget(ctx context.Context, user string, limit decimal.Decimal) error {
	b := core.Budget{Owner: user, Limit: limit}
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, kv.BudgetKey(user), limit.String()); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget set", "username", user, "limit", limit.String())
	return nil
}

// ClearBudget removes the stored limit; absence is the "no budget"
// state.
func (s *Store) ClearBudget(ctx context.Context, user string) error {
	if err := s.kv.Delete(ctx, kv.BudgetKey(user)); err != nil {
		return fmt.Errorf("clear budget: %w", err)
	}
	return nil
}

// Budget returns the user's limit, or nil when none is set.
func (s *Store) Budget(ctx context.Context, user string) (*decimal.Decimal, error) {
	raw, ok, err := s.kv.Get(ctx, kv.BudgetKey(user))
	if err != nil {
		return nil, fmt.Errorf("read budget: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	limit, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode budget %q: %w", raw, err)
	}
	return &limit, nil
}
