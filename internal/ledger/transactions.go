// Package ledger persists per-user transaction lists and budgets.
//
// Every operation takes the owning username explicitly; nothing here
// reads ambient session state. Lists are stored whole as JSON arrays and
// rewritten on every mutation, newest entry first.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/kv"
)

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// List returns the user's transactions in display order (newest added
// first). A user without a persisted list gets an empty one.
func (s *Store) List(ctx context.Context, user string) ([]core.Transaction, error) {
	raw, ok, err := s.kv.Get(ctx, kv.TransactionsKey(user))
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	if !ok {
		return []core.Transaction{}, nil
	}
	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

// Add validates the transaction, fills defaults (today's date, the
// default category), assigns a fresh id and inserts it at the head of
// the user's list.
func (s *Store) Add(ctx context.Context, user string, tx core.Transaction) (core.Transaction, error) {
	if tx.Date.IsZero() {
		tx.Date = core.Today()
	}
	tx.Category = tx.NormalizedCategory()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	txs, err := s.List(ctx, user)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.ID = nextID(txs)
	txs = append([]core.Transaction{tx}, txs...)
	if err := s.save(ctx, user, txs); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"username", user,
		"id", tx.ID,
		"category", tx.Category,
		"amount", core.FormatAmount(tx.Amount))
	return tx, nil
}

// Update replaces text, category, amount and date of the matching entry
// in place, preserving id and list position. A missing id is
// core.ErrNotFound; a failed validation leaves the list untouched.
func (s *Store) Update(ctx context.Context, user string, id int64, fields core.Transaction) (core.Transaction, error) {
	if fields.Date.IsZero() {
		fields.Date = core.Today()
	}
	fields.Category = fields.NormalizedCategory()
	fields.ID = id
	if err := fields.Validate(); err != nil {
		return core.Transaction{}, err
	}

	txs, err := s.List(ctx, user)
	if err != nil {
		return core.Transaction{}, err
	}
	for i, t := range txs {
		if t.ID != id {
			continue
		}
		txs[i] = fields
		if err := s.save(ctx, user, txs); err != nil {
			return core.Transaction{}, err
		}
		slog.InfoContext(ctx, "Transaction updated", "username", user, "id", id)
		return fields, nil
	}
	return core.Transaction{}, core.ErrNotFound
}

// Remove deletes the matching entry. An absent id is a no-op, not an
// error.
func (s *Store) Remove(ctx context.Context, user string, id int64) error {
	txs, err := s.List(ctx, user)
	if err != nil {
		return err
	}
	kept := txs[:0]
	for _, t := range txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(txs) {
		return nil
	}
	if err := s.save(ctx, user, kept); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction removed", "username", user, "id", id)
	return nil
}

func (s *Store) save(ctx context.Context, user string, txs []core.Transaction) error {
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, kv.TransactionsKey(user), string(raw)); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	return nil
}

// nextID is a per-user monotonic counter: one past the largest id in the
// list. Ids of removed entries may be reused; uniqueness within the
// current list is what the contract requires.
func nextID(txs []core.Transaction) int64 {
	var max int64
	for _, t := range txs {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}
