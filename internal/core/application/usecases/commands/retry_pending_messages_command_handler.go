package commands

import (
	"context"

	"inflight/internal/core/ports"
)

// RetryPendingMessagesCommandHandler schedules a delivery attempt for each
// message with sent=false.
//
// Scheduling is idempotent: a message already queued or in flight is not
// queued twice, and the delivery itself skips messages that became sent in
// the meantime.
type RetryPendingMessagesCommandHandler struct {
	uowFactory MessageUoWFactory
	scheduler  ports.MessageScheduler
}

// NewRetryPendingMessagesCommandHandler creates the sweep handler.
func NewRetryPendingMessagesCommandHandler(
	uowFactory MessageUoWFactory,
	scheduler ports.MessageScheduler,
) RetryPendingMessagesCommandHandler {
	return RetryPendingMessagesCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
	}
}

// Handle returns the number of messages that were accepted for scheduling.
func (h *RetryPendingMessagesCommandHandler) Handle(ctx context.Context, cmd RetryPendingMessagesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	ids, err := uow.OutgoingMessageRepository().ListPendingIDs(ctx)
	if err != nil {
		return 0, err
	}

	scheduled := 0
	for _, id := range ids {
		if h.scheduler.Schedule(ctx, id) {
			scheduled++
		}
	}

	return scheduled, nil
}
