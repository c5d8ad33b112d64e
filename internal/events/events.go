// Package events publishes ledger changes for downstream consumers.
// Publishing is best effort: a ledger write never depends on it.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types, also used as AMQP routing keys.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	TransferCreated    = "transfer.created"
)

// Event describes one committed ledger change.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id"`
	TransactionIDs []string  `json:"transaction_ids"`
	TransferID     string    `json:"transfer_id,omitempty"`
	WalletIDs      []string  `json:"wallet_ids"`
	Amount         int64     `json:"amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Marshal encodes the event as the JSON message body.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends ledger events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type nopPublisher struct{}

// NewNop returns a Publisher that drops every event.
func NewNop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
