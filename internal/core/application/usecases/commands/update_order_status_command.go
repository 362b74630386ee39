package commands

import (
	"errors"
	"fmt"

	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks to move an order to another status.
// The status is kept as the raw client string: values outside the status set
// are accepted here and ignored by the handler.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	status  string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(orderID int64, status string) (UpdateOrderStatusCommand, error) {
	if orderID <= 0 {
		return UpdateOrderStatusCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("%d is not a positive id", orderID),
		)
	}

	return UpdateOrderStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() string {
	return c.status
}
