// Package worker mirrors ledger-change events into an external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/notify"
)

// RowAppender is the outbound port the mirror writes rows through.
type RowAppender interface {
	AppendRow(ctx context.Context, values []any) error
}

// Mirror consumes change events and appends one audit row per event.
// It reads current state from the ledger itself; events only tell it
// what changed.
type Mirror struct {
	ledger *ledger.Store
	sheet  RowAppender
}

func NewMirror(led *ledger.Store, sheet RowAppender) *Mirror {
	return &Mirror{ledger: led, sheet: sheet}
}

// HandleChange processes a single change event. A removed transaction
// no longer exists, so its row carries the id only.
func (m *Mirror) HandleChange(ctx context.Context, msg *notify.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"username", msg.Username,
		"kind", msg.Kind,
		"transaction_id", msg.TransactionID)

	row := []any{
		msg.Timestamp.Format("2006-01-02 15:04:05"),
		msg.Username,
		string(msg.Kind),
	}

	switch {
	case msg.Kind == notify.TransactionAdded || msg.Kind == notify.TransactionUpdated:
		tx, err := m.findTransaction(ctx, msg.Username, msg.TransactionID)
		if err != nil {
			return err
		}
		row = append(row, msg.TransactionID, tx.Date.String(), tx.Category, tx.Text, core.FormatAmount(tx.Amount))
	case msg.Kind == notify.TransactionRemoved:
		row = append(row, msg.TransactionID)
	case msg.Kind == notify.BudgetSet:
		limit, err := m.ledger.Budget(ctx, msg.Username)
		if err != nil {
			return fmt.Errorf("read budget: %w", err)
		}
		if limit != nil {
			row = append(row, "", "", "", "", core.FormatAmount(*limit))
		}
	}

	if err := m.sheet.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("mirror change for %s: %w", msg.Username, err)
	}
	return nil
}

func (m *Mirror) findTransaction(ctx context.Context, user string, id int64) (core.Transaction, error) {
	txs, err := m.ledger.List(ctx, user)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range txs {
		if t.ID == id {
			return t, nil
		}
	}
	// the record was changed again before we caught up; requeue
	return core.Transaction{}, fmt.Errorf("transaction %d for %s: %w", id, user, core.ErrNotFound)
}
