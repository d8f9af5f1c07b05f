// Package session orchestrates the stores behind a single explicit
// session context.
//
// The controller is the only component that knows who is logged in.
// Store operations always receive the owner's username from it; nothing
// below this layer reads ambient session state. After every mutation it
// emits a change event so other instances and the mirror worker can
// re-read the persisted value.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"tally/internal/accounts"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/notify"
)

type Controller struct {
	accounts *accounts.Store
	ledger   *ledger.Store
	notifier notify.Notifier

	mu     sync.Mutex
	active *core.Session
}

func NewController(acc *accounts.Store, led *ledger.Store, notifier notify.Notifier) *Controller {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Controller{
		accounts: acc,
		ledger:   led,
		notifier: notifier,
	}
}

// Resume picks up the session a previous process left persisted.
func (c *Controller) Resume(ctx context.Context) error {
	session, ok, err := c.accounts.Active(ctx)
	if err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.active = &session
		slog.InfoContext(ctx, "Session resumed", "username", session.Username)
	}
	return nil
}

// Session returns the active session, if any.
func (c *Controller) Session() (core.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return core.Session{}, false
	}
	return *c.active, true
}

// Signup registers and logs in a new user.
func (c *Controller) Signup(ctx context.Context, username, password string) (core.Session, error) {
	session, err := c.accounts.Signup(ctx, username, password)
	if err != nil {
		return core.Session{}, err
	}
	c.setActive(session)
	return session, nil
}

// Login activates a session for an existing user.
func (c *Controller) Login(ctx context.Context, username, password string) (core.Session, error) {
	session, err := c.accounts.Login(ctx, username, password)
	if err != nil {
		return core.Session{}, err
	}
	c.setActive(session)
	slog.InfoContext(ctx, "User logged in", "username", session.Username)
	return session, nil
}

// Logout clears the session unconditionally.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.accounts.Logout(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) setActive(session core.Session) {
	c.mu.Lock()
	c.active = &session
	c.mu.Unlock()
}

// owner is the gate every transaction and budget operation goes through.
func (c *Controller) owner() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", core.ErrNoSession
	}
	return c.active.Username, nil
}

// Transactions lists the active user's records, newest first. Without a
// session it returns an empty list, not an error.
func (c *Controller) Transactions(ctx context.Context) ([]core.Transaction, error) {
	user, err := c.owner()
	if err != nil {
		return []core.Transaction{}, nil
	}
	return c.ledger.List(ctx, user)
}

// AddTransaction validates, persists and announces a new record.
func (c *Controller) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	user, err := c.owner()
	if err != nil {
		return core.Transaction{}, err
	}
	added, err := c.ledger.Add(ctx, user, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	c.announce(ctx, notify.NewChangeMessage(user, notify.TransactionAdded, added.ID))
	return added, nil
}

// UpdateTransaction replaces an existing record's fields in place.
func (c *Controller) UpdateTransaction(ctx context.Context, id int64, fields core.Transaction) (core.Transaction, error) {
	user, err := c.owner()
	if err != nil {
		return core.Transaction{}, err
	}
	updated, err := c.ledger.Update(ctx, user, id, fields)
	if err != nil {
		return core.Transaction{}, err
	}
	c.announce(ctx, notify.NewChangeMessage(user, notify.TransactionUpdated, id))
	return updated, nil
}

// RemoveTransaction deletes a record; an absent id is a no-op.
func (c *Controller) RemoveTransaction(ctx context.Context, id int64) error {
	user, err := c.owner()
	if err != nil {
		return err
	}
	if err := c.ledger.Remove(ctx, user, id); err != nil {
		return err
	}
	c.announce(ctx, notify.NewChangeMessage(user, notify.TransactionRemoved, id))
	return nil
}

// SetBudget stores the active user's spending limit.
func (c *Controller) SetBudget(ctx context.Context, limit decimal.Decimal) error {
	user, err := c.owner()
	if err != nil {
		return err
	}
	if err := c.ledger.SetBudget(ctx, user, limit); err != nil {
		return err
	}
	c.announce(ctx, notify.NewChangeMessage(user, notify.BudgetSet, 0))
	return nil
}

// ClearBudget removes the active user's limit.
func (c *Controller) ClearBudget(ctx context.Context) error {
	user, err := c.owner()
	if err != nil {
		return err
	}
	if err := c.ledger.ClearBudget(ctx, user); err != nil {
		return err
	}
	c.announce(ctx, notify.NewChangeMessage(user, notify.BudgetCleared, 0))
	return nil
}

// Budget returns the active user's limit, nil when unset.
func (c *Controller) Budget(ctx context.Context) (*decimal.Decimal, error) {
	user, err := c.owner()
	if err != nil {
		return nil, err
	}
	return c.ledger.Budget(ctx, user)
}

// announce is best-effort: a mutation that persisted locally is not
// rolled back because the broker is down.
func (c *Controller) announce(ctx context.Context, msg notify.ChangeMessage) {
	if err := c.notifier.LedgerChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"username", msg.Username,
			"kind", msg.Kind,
			"error", err)
	}
}
