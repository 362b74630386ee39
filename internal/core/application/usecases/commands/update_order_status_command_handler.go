package commands

import (
	"context"

	"inflight/internal/core/domain/event"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// UpdateOrderStatusCommandHandler changes an order's status and announces the
// change after commit.
//
// An unrecognized status string leaves the order untouched and is not an
// error. Setting the current status again is also silent.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewUpdateOrderStatusCommandHandler creates the status update handler.
func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle returns the order as it is after the command.
// Returns errs.ErrObjectNotFound for an unknown order.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", cmd.OrderID()), attribute.String("order.status.requested", cmd.Status()))

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		failSpan(span, err)
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		failSpan(span, err)
		return nil, err
	}

	status, ok := order.ParseStatus(cmd.Status())
	if !ok {
		return o, nil
	}

	changed, err := o.ChangeStatus(status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		failSpan(span, err)
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		failSpan(span, err)
		return nil, err
	}

	h.publisher.Publish(event.OrderStatusChanged{ID: o.ID(), Status: o.Status().String()})

	return o, nil
}
