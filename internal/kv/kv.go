// Package kv is the persistence port of the ledger: a flat string
// key-value space in which every value is JSON- or string-encoded.
// Writers always replace whole values; there are no transactional
// guarantees beyond single-key atomicity (last writer wins).
package kv

import "context"

// Store is the key-value port. Get reports ok=false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key scheme. Every per-user record is reachable only through a key
// derived from its owner's username.
const (
	// UsersKey holds the account registry, a JSON map username -> account.
	UsersKey = "users"
	// SessionKey holds the active username, absent when logged out.
	SessionKey = "session"
)

// TransactionsKey is the per-user transaction list, a JSON array.
func TransactionsKey(user string) string { return "tx_" + user }

// BudgetKey is the per-user budget limit, a plain decimal string.
func BudgetKey(user string) string { return "budget_" + user }
