package commands

import (
	"errors"
	"fmt"

	"inflight/internal/core/domain/model/order"
	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLineInput is one requested line as received from the client.
// A zero Quantity means the client did not specify one.
type OrderLineInput struct {
	ItemID   int64
	Quantity int
}

// CreateOrderCommand represents a passenger's request to place an order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("12A", []OrderLineInput{{ItemID: 7, Quantity: 2}}, "", "abc")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	seat           string
	lines          []order.Line
	paymentMethod  string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the structural shape of the request.
// Item existence is checked by the handler, not here.
func NewCreateOrderCommand(
	seat string,
	lines []OrderLineInput,
	paymentMethod string,
	idempotencyKey string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentMethod:  paymentMethod,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSeat(seat),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Seat() string {
	return c.seat
}

func (c CreateOrderCommand) Lines() []order.Line {
	out := make([]order.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemIDs returns the item id of every line in request order.
func (c CreateOrderCommand) ItemIDs() []int64 {
	ids := make([]int64, 0, len(c.lines))
	for _, l := range c.lines {
		ids = append(ids, l.ItemID())
	}
	return ids
}

func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

// IdempotencyKey returns the client supplied key and whether one was given.
func (c CreateOrderCommand) IdempotencyKey() (string, bool) {
	return c.idempotencyKey, c.idempotencyKey != ""
}

func (c *CreateOrderCommand) setSeat(seat string) error {
	if seat == "" {
		return errs.NewValueIsRequiredError("seat")
	}
	c.seat = seat
	return nil
}

func (c *CreateOrderCommand) setLines(inputs []OrderLineInput) error {
	lines := make([]order.Line, 0, len(inputs))
	var lineErrs []error
	for i, in := range inputs {
		l, err := order.NewLine(in.ItemID, in.Quantity)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		lines = append(lines, l)
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}
	c.lines = lines
	return nil
}
