// Package accounts manages the user registry and the active session.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/core"
	"tally/internal/kv"
)

// credential is the persisted per-user record of the registry map.
type credential struct {
	Password string `json:"password"`
}

// Store keeps accounts and the active session in the key-value space.
// Accounts are never mutated or deleted once created.
type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Signup registers a new account, initializes its empty transaction list
// and activates a session for it. The username is trimmed before the
// uniqueness check; matching is case-sensitive.
func (s *Store) Signup(ctx context.Context, username, password string) (core.Session, error) {
	username = strings.TrimSpace(username)
	acct := core.Account{Username: username, Password: password}
	if err := acct.Validate(); err != nil {
		return core.Session{}, err
	}

	users, err := s.registry(ctx)
	if err != nil {
		return core.Session{}, err
	}
	if _, exists := users[username]; exists {
		return core.Session{}, core.ErrDuplicateUser
	}

	users[username] = credential{Password: password}
	if err := s.saveRegistry(ctx, users); err != nil {
		return core.Session{}, err
	}
	if err := s.kv.Set(ctx, kv.TransactionsKey(username), "[]"); err != nil {
		return core.Session{}, fmt.Errorf("init transaction list: %w", err)
	}

	session, err := s.activate(ctx, username)
	if err != nil {
		return core.Session{}, err
	}

	slog.InfoContext(ctx, "Account created", "username", username)
	return session, nil
}

// Login activates a session for an existing account. Existing
// transaction and budget records are untouched.
func (s *Store) Login(ctx context.Context, username, password string) (core.Session, error) {
	users, err := s.registry(ctx)
	if err != nil {
		return core.Session{}, err
	}
	cred, exists := users[username]
	if !exists || cred.Password != password {
		return core.Session{}, core.ErrInvalidCredentials
	}
	return s.activate(ctx, username)
}

// Logout clears the active session. It is a no-op when none is active.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Active returns the persisted session, if any. A restarted process
// resumes the session the previous one left active.
func (s *Store) Active(ctx context.Context) (core.Session, bool, error) {
	user, ok, err := s.kv.Get(ctx, kv.SessionKey)
	if err != nil {
		return core.Session{}, false, fmt.Errorf("read session: %w", err)
	}
	if !ok || user == "" {
		return core.Session{}, false, nil
	}
	return core.Session{Username: user}, true, nil
}

func (s *Store) activate(ctx context.Context, username string) (core.Session, error) {
	if err := s.kv.Set(ctx, kv.SessionKey, username); err != nil {
		return core.Session{}, fmt.Errorf("activate session: %w", err)
	}
	return core.Session{Username: username}, nil
}

func (s *Store) registry(ctx context.Context) (map[string]credential, error) {
	raw, ok, err := s.kv.Get(ctx, kv.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("read account registry: %w", err)
	}
	users := make(map[string]credential)
	if !ok {
		return users, nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode account registry: %w", err)
	}
	return users, nil
}

func (s *Store) saveRegistry(ctx context.Context, users map[string]credential) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode account registry: %w", err)
	}
	if err := s.kv.Set(ctx, kv.UsersKey, string(raw)); err != nil {
		return fmt.Errorf("write account registry: %w", err)
	}
	return nil
}
