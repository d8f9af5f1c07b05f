package worker

import (
	"context"
	"errors"
	"testing"

	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/ledger"
	"tally/internal/notify"
)

type fakeSheet struct {
	rows [][]any
	err  error
}

func (f *fakeSheet) AppendRow(_ context.Context, values []any) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, values)
	return nil
}

func seedTransaction(t *testing.T, led *ledger.Store, user string) core.Transaction {
	t.Helper()
	amount, _ := core.ParseAmount("-50")
	tx, err := led.Add(context.Background(), user, core.Transaction{
		Text:     "Coffee",
		Category: "Food",
		Amount:   amount,
		Date:     core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tx
}

func TestHandleChangeAdded(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(kv.NewMemory())
	sheet := &fakeSheet{}
	m := NewMirror(led, sheet)

	tx := seedTransaction(t, led, "alice")
	msg := notify.NewChangeMessage("alice", notify.TransactionAdded, tx.ID)

	if err := m.HandleChange(ctx, &msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sheet.rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(sheet.rows))
	}
	row := sheet.rows[0]
	if row[1] != "alice" || row[2] != string(notify.TransactionAdded) {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[5] != "Food" || row[6] != "Coffee" || row[7] != "-50.00" {
		t.Fatalf("transaction details missing: %v", row)
	}
}

func TestHandleChangeRemovedCarriesIDOnly(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(kv.NewMemory())
	sheet := &fakeSheet{}
	m := NewMirror(led, sheet)

	msg := notify.NewChangeMessage("alice", notify.TransactionRemoved, 7)
	if err := m.HandleChange(ctx, &msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	row := sheet.rows[0]
	if len(row) != 4 || row[3] != int64(7) {
		t.Fatalf("unexpected row for removal: %v", row)
	}
}

func TestHandleChangeMissingTransactionFails(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(kv.NewMemory())
	m := NewMirror(led, &fakeSheet{})

	msg := notify.NewChangeMessage("alice", notify.TransactionAdded, 999)
	if err := m.HandleChange(ctx, &msg); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound so the event requeues, got %v", err)
	}
}

func TestHandleChangeBudgetSet(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(kv.NewMemory())
	sheet := &fakeSheet{}
	m := NewMirror(led, sheet)

	limit, _ := core.ParseAmount("150")
	if err := led.SetBudget(ctx, "alice", limit); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	msg := notify.NewChangeMessage("alice", notify.BudgetSet, 0)
	if err := m.HandleChange(ctx, &msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	row := sheet.rows[0]
	if row[len(row)-1] != "150.00" {
		t.Fatalf("budget limit missing from row: %v", row)
	}
}

func TestHandleChangeSheetFailurePropagates(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(kv.NewMemory())
	sheetErr := errors.New("quota exceeded")
	m := NewMirror(led, &fakeSheet{err: sheetErr})

	msg := notify.NewChangeMessage("alice", notify.TransactionRemoved, 1)
	if err := m.HandleChange(ctx, &msg); !errors.Is(err, sheetErr) {
		t.Fatalf("expected sheet error to propagate, got %v", err)
	}
}
