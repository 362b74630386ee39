package commands

import (
	"context"
	"errors"
	"time"

	"inflight/internal/core/domain/event"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/core/ports"
	"inflight/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// CreateOrderCommandHandler creates orders exactly once per idempotency key.
//
// The key lookup before the write is only a fast path. Two concurrent
// requests with the same key can both miss it; the unique index then rejects
// the loser's insert and the handler returns the winner's order instead.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates the intake handler. Events are
// published through publisher once the order is committed.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle returns the order and whether this call created it.
// An order that already existed for the key is returned with created=false
// and without re-validating its lines.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	ctx, span := tracer.Start(ctx, "CreateOrder")
	defer span.End()

	key, hasKey := cmd.IdempotencyKey()
	if hasKey {
		existing, err := h.findByKey(ctx, key)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Int64("order.id", existing.ID()), attribute.Bool("order.created", false))
			return existing, false, nil
		case !errors.Is(err, errs.ErrObjectNotFound):
			failSpan(span, err)
			return nil, false, err
		}
	}

	created, err := h.create(ctx, cmd)
	if err != nil {
		if hasKey && errors.Is(err, errs.ErrConflict) {
			winner, lookupErr := h.findByKey(ctx, key)
			if lookupErr != nil {
				failSpan(span, lookupErr)
				return nil, false, errors.Join(err, lookupErr)
			}
			span.SetAttributes(attribute.Int64("order.id", winner.ID()), attribute.Bool("order.created", false))
			return winner, false, nil
		}
		failSpan(span, err)
		return nil, false, err
	}

	h.publisher.Publish(event.OrderCreated{ID: created.ID()})

	span.SetAttributes(attribute.Int64("order.id", created.ID()), attribute.Bool("order.created", true))
	return created, true, nil
}

func (h *CreateOrderCommandHandler) findByKey(ctx context.Context, key string) (*order.Order, error) {
	uow := h.uowFactory.Create()
	return uow.OrderRepository().FindByIdempotencyKey(ctx, key)
}

func (h *CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	missing, err := uow.ItemRepository().FindMissing(ctx, cmd.ItemIDs())
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, errs.NewInvalidReferenceError("itemId", missing)
	}

	key, _ := cmd.IdempotencyKey()
	o, err := order.NewOrder(cmd.Seat(), cmd.Lines(), cmd.PaymentMethod(), key, h.now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
