package commands

import (
	"context"
	"time"

	"inflight/internal/core/ports"
	"inflight/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// DeliverOutgoingMessageCommandHandler performs one delivery attempt.
//
// The message is loaded in a transaction that holds its row lock (on stores
// that support it) for the duration of the send, so two workers never send
// the same message concurrently. A message is marked sent only after the
// sender reported success.
type DeliverOutgoingMessageCommandHandler struct {
	uowFactory MessageUoWFactory
	sender     ports.MessageSender
	now        func() time.Time
}

// NewDeliverOutgoingMessageCommandHandler creates the delivery attempt
// handler. Requires a MessageUoWFactory for the locked load and a
// MessageSender for the external hand-off.
func NewDeliverOutgoingMessageCommandHandler(
	uowFactory MessageUoWFactory,
	sender ports.MessageSender,
) DeliverOutgoingMessageCommandHandler {
	return DeliverOutgoingMessageCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		now:        time.Now,
	}
}

// Handle returns errs.DeliveryFailedError when the send failed. The failure
// is recorded on the message, which stays pending.
func (h *DeliverOutgoingMessageCommandHandler) Handle(ctx context.Context, cmd DeliverOutgoingMessageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "DeliverOutgoingMessage")
	defer span.End()
	span.SetAttributes(attribute.Int64("message.id", cmd.MessageID()))

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		failSpan(span, err)
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OutgoingMessageRepository()
	msg, err := repo.GetForDelivery(ctx, cmd.MessageID())
	if err != nil {
		failSpan(span, err)
		return err
	}

	if msg.IsSent() {
		span.SetAttributes(attribute.Bool("message.already_sent", true))
		return nil
	}
	span.SetAttributes(attribute.String("message.target", msg.Target()))

	sendErr := h.sender.Send(ctx, msg)
	if sendErr != nil {
		msg.RecordFailure(sendErr)
	} else if err = msg.MarkSent(h.now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, msg); err != nil {
		failSpan(span, err)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		failSpan(span, err)
		return err
	}

	if sendErr != nil {
		failSpan(span, sendErr)
		return errs.NewDeliveryFailedError(msg.ID(), sendErr)
	}

	return nil
}
