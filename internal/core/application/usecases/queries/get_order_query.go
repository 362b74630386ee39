// Package queries contains read-only operations served straight from the
// database, bypassing the aggregates.
package queries

import (
	"errors"
	"fmt"
	"time"

	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its lines and the catalog names of
// the ordered items.
//
// Example:
//
//	query, _ := NewGetOrderQuery(42)
//	resp, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetOrderQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("%d is not a positive id", orderID),
		)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// GetOrderQueryResponse is the read model of a single order.
type GetOrderQueryResponse struct {
	ID            int64
	Seat          string
	Status        string
	PaymentMethod *string
	CreatedAt     time.Time
	Lines         []GetOrderQueryLine
}

// GetOrderQueryLine is one order line. ItemName is empty when the item has
// since been removed from the catalog.
type GetOrderQueryLine struct {
	ItemID   int64
	ItemName string
	Quantity int
}
