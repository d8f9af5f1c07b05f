package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/kv"
)

func newStore() *Store {
	return New(kv.NewMemory())
}

func mustAdd(t *testing.T, s *Store, user, text, category, amount, date string) core.Transaction {
	t.Helper()
	a, err := core.ParseAmount(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}
	tx := core.Transaction{Text: text, Category: category, Amount: a}
	if date != "" {
		d, err := core.ParseDate(date)
		if err != nil {
			t.Fatalf("parse date %q: %v", date, err)
		}
		tx.Date = d
	}
	added, err := s.Add(context.Background(), user, tx)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return added
}

func TestListEmptyUser(t *testing.T) {
	s := newStore()
	txs, err := s.List(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(txs))
	}
}

func TestAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	added := mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")
	if added.ID == 0 {
		t.Fatal("id should be assigned")
	}

	txs, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.Text != "Coffee" || got.Category != "Food" || got.Date.String() != "2024-01-01" {
		t.Fatalf("fields not preserved: %+v", got)
	}
	if core.FormatAmount(got.Amount) != "-50.00" {
		t.Fatalf("amount not preserved: %s", core.FormatAmount(got.Amount))
	}
	if got.ID != added.ID {
		t.Fatalf("id changed across persist: %d != %d", got.ID, added.ID)
	}
}

func TestAddInsertsAtHead(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	mustAdd(t, s, "alice", "first", "A", "-1", "2024-01-01")
	mustAdd(t, s, "alice", "second", "B", "-2", "2024-01-02")

	txs, _ := s.List(ctx, "alice")
	if txs[0].Text != "second" || txs[1].Text != "first" {
		t.Fatalf("newest should come first: %v, %v", txs[0].Text, txs[1].Text)
	}
	if txs[0].ID <= txs[1].ID {
		t.Fatalf("ids should be monotonic: %d, %d", txs[0].ID, txs[1].ID)
	}
}

func TestAddDefaults(t *testing.T) {
	s := newStore()
	added := mustAdd(t, s, "alice", "Mystery", "", "-5", "")
	if added.Category != core.DefaultCategory {
		t.Fatalf("expected default category, got %q", added.Category)
	}
	if added.Date.String() != core.Today().String() {
		t.Fatalf("expected today's date, got %s", added.Date)
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_, err := s.Add(ctx, "alice", core.Transaction{Text: "  ", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	// nothing was written
	txs, _ := s.List(ctx, "alice")
	if len(txs) != 0 {
		t.Fatalf("failed add must not persist, got %d entries", len(txs))
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	mustAdd(t, s, "alice", "keep me", "A", "-1", "2024-01-01")
	target := mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-02")
	mustAdd(t, s, "alice", "also keep", "B", "-2", "2024-01-03")

	amount, _ := core.ParseAmount("-60")
	date, _ := core.ParseDate("2024-02-01")
	updated, err := s.Update(ctx, "alice", target.ID, core.Transaction{
		Text:     "Espresso",
		Category: "Drinks",
		Amount:   amount,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != target.ID {
		t.Fatalf("id must be preserved: %d != %d", updated.ID, target.ID)
	}

	txs, _ := s.List(ctx, "alice")
	if len(txs) != 3 {
		t.Fatalf("length changed: %d", len(txs))
	}
	// position preserved: target was in the middle
	if txs[1].ID != target.ID || txs[1].Text != "Espresso" || txs[1].Category != "Drinks" {
		t.Fatalf("entry not updated in place: %+v", txs[1])
	}
	if core.FormatAmount(txs[1].Amount) != "-60.00" || txs[1].Date.String() != "2024-02-01" {
		t.Fatalf("fields not replaced: %+v", txs[1])
	}
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")

	_, err := s.Update(ctx, "alice", 999, core.Transaction{
		Text:   "x",
		Amount: decimal.NewFromInt(1),
		Date:   core.NewDate(2024, 1, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateValidationLeavesListUntouched(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	target := mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")

	_, err := s.Update(ctx, "alice", target.ID, core.Transaction{Text: ""})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	txs, _ := s.List(ctx, "alice")
	if txs[0].Text != "Coffee" {
		t.Fatalf("failed update must not apply: %+v", txs[0])
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	target := mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")
	mustAdd(t, s, "alice", "Salary", "Income", "1000", "2024-01-02")

	if err := s.Remove(ctx, "alice", target.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	txs, _ := s.List(ctx, "alice")
	if len(txs) != 1 || txs[0].Text != "Salary" {
		t.Fatalf("unexpected list after remove: %+v", txs)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")

	if err := s.Remove(ctx, "alice", 12345); err != nil {
		t.Fatalf("remove of absent id should not error: %v", err)
	}
	txs, _ := s.List(ctx, "alice")
	if len(txs) != 1 {
		t.Fatalf("list length changed: %d", len(txs))
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mustAdd(t, s, "alice", "Coffee", "Food", "-50", "2024-01-01")

	txs, err := s.List(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("bob sees alice's data: %+v", txs)
	}
}

func TestIDsUniqueWithinList(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for i := 0; i < 10; i++ {
		mustAdd(t, s, "alice", "entry", "A", "-1", "2024-01-01")
	}
	txs, _ := s.List(ctx, "alice")
	seen := make(map[int64]bool)
	for _, tx := range txs {
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
	}
}
