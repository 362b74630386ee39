// Package event defines the domain events raised by the order intake
// pipeline. Events describe committed state changes; they are never persisted
// and only live on the event bus and in subscriber mailboxes.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the wire name of a domain event.
type Type string

const (
	TypeOrderCreated       Type = "order_created"
	TypeOrderStatusChanged Type = "order_status_change"
)

// Event is the tagged union of domain events: OrderCreated | OrderStatusChanged.
type Event interface {
	EventType() Type
	OrderID() int64
}

// OrderCreated is raised after a new order has been committed.
type OrderCreated struct {
	ID int64
}

func (e OrderCreated) EventType() Type { return TypeOrderCreated }
func (e OrderCreated) OrderID() int64  { return e.ID }

// OrderStatusChanged is raised after a status change has been committed.
type OrderStatusChanged struct {
	ID     int64
	Status string
}

func (e OrderStatusChanged) EventType() Type { return TypeOrderStatusChanged }
func (e OrderStatusChanged) OrderID() int64  { return e.ID }

// Envelope is the serialized form pushed to subscribers, one per frame.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	OrderID    int64     `json:"orderId"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEnvelope wraps e with a fresh identifier and timestamp.
func NewEnvelope(e Event, at time.Time) Envelope {
	env := Envelope{
		ID:         uuid.New(),
		Type:       e.EventType(),
		OrderID:    e.OrderID(),
		OccurredAt: at.UTC(),
	}
	if changed, ok := e.(OrderStatusChanged); ok {
		env.Status = changed.Status
	}
	return env
}

// Event converts the envelope back into its domain event.
func (env Envelope) Event() (Event, error) {
	switch env.Type {
	case TypeOrderCreated:
		return OrderCreated{ID: env.OrderID}, nil
	case TypeOrderStatusChanged:
		return OrderStatusChanged{ID: env.OrderID, Status: env.Status}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}

// MarshalFrame returns the JSON payload of a single push frame.
func (env Envelope) MarshalFrame() ([]byte, error) {
	return json.Marshal(env)
}
