package ports

import (
	"context"

	"inflight/internal/core/domain/model/outbox"
)

// OutgoingMessageRepository persists messages waiting for outbound delivery.
type OutgoingMessageRepository interface {
	Add(ctx context.Context, msg *outbox.Message) error
	Update(ctx context.Context, msg *outbox.Message) error
	Get(ctx context.Context, id int64) (*outbox.Message, error)

	// GetForDelivery loads a message and locks its row for the rest of the
	// transaction where the store supports row locks.
	GetForDelivery(ctx context.Context, id int64) (*outbox.Message, error)

	// ListPendingIDs returns the ids of all messages not yet sent, oldest first.
	ListPendingIDs(ctx context.Context) ([]int64, error)
}
