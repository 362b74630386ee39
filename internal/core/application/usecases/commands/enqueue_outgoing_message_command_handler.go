package commands

import (
	"context"
	"time"

	"inflight/internal/core/domain/model/outbox"
	"inflight/internal/core/ports"
)

// EnqueueOutgoingMessageCommandHandler persists an outgoing message and
// schedules its first delivery attempt. It does not wait for delivery.
type EnqueueOutgoingMessageCommandHandler struct {
	uowFactory MessageUoWFactory
	scheduler  ports.MessageScheduler
	now        func() time.Time
}

// NewEnqueueOutgoingMessageCommandHandler creates a handler that persists
// messages and schedules their first delivery attempt.
func NewEnqueueOutgoingMessageCommandHandler(
	uowFactory MessageUoWFactory,
	scheduler ports.MessageScheduler,
) EnqueueOutgoingMessageCommandHandler {
	return EnqueueOutgoingMessageCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		now:        time.Now,
	}
}

// Handle returns the id assigned to the stored message. A rejected schedule
// request is not an error: the message stays pending for the retry sweep.
func (h *EnqueueOutgoingMessageCommandHandler) Handle(ctx context.Context, cmd EnqueueOutgoingMessageCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	msg, err := outbox.NewMessage(cmd.Target(), cmd.Payload(), h.now())
	if err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OutgoingMessageRepository().Add(ctx, msg); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.scheduler.Schedule(ctx, msg.ID())

	return msg.ID(), nil
}
