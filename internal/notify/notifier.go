// Package notify carries the ledger's change signal.
//
// Stores never touch presentation state directly: after a mutation the
// session controller emits a change event, and interested parties (other
// server instances, the sheet mirror worker) react by re-reading the
// persisted value. Events never carry data to merge, only the fact that
// a user's ledger changed.
package notify

import "context"

// Notifier is the outbound change-signal port.
type Notifier interface {
	LedgerChanged(ctx context.Context, msg ChangeMessage) error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) LedgerChanged(context.Context, ChangeMessage) error { return nil }
