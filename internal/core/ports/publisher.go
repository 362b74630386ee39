package ports

import (
	"context"

	"inflight/internal/core/domain/event"
	"inflight/internal/core/domain/model/outbox"
)

// EventPublisher fans domain events out to interested subscribers.
// Publish never blocks on slow subscribers and never fails the caller.
type EventPublisher interface {
	Publish(e event.Event)
}

// MessageScheduler arranges an asynchronous delivery attempt for a message.
// It reports false when the request was not accepted (already queued or the
// queue is full); the message then waits for the next retry sweep.
type MessageScheduler interface {
	Schedule(ctx context.Context, messageID int64) bool
}

// MessageSender performs the external send of one outgoing message.
type MessageSender interface {
	Send(ctx context.Context, msg *outbox.Message) error
}
