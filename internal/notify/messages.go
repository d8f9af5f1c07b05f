package notify

import (
	"encoding/json"
	"time"
)

// ChangeKind names the mutation that produced an event.
type ChangeKind string

const (
	TransactionAdded   ChangeKind = "transaction_added"
	TransactionUpdated ChangeKind = "transaction_updated"
	TransactionRemoved ChangeKind = "transaction_removed"
	BudgetSet          ChangeKind = "budget_set"
	BudgetCleared      ChangeKind = "budget_cleared"
)

// ChangeMessage is a lightweight ledger-change event. It identifies the
// owner and, for transaction mutations, the record id; consumers fetch
// current state themselves.
type ChangeMessage struct {
	Username      string     `json:"username"`
	Kind          ChangeKind `json:"kind"`
	TransactionID int64      `json:"transaction_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

func NewChangeMessage(username string, kind ChangeKind, txID int64) ChangeMessage {
	return ChangeMessage{
		Username:      username,
		Kind:          kind,
		TransactionID: txID,
		Timestamp:     time.Now(),
	}
}

// TouchesTransactions reports whether the event invalidates the owner's
// transaction view (budget-only events do not).
func (m ChangeMessage) TouchesTransactions() bool {
	switch m.Kind {
	case TransactionAdded, TransactionUpdated, TransactionRemoved:
		return true
	}
	return false
}

func (m ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
