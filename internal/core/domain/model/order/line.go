package order

import (
	"errors"

	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

// DefaultQuantity is used when a line is requested without a quantity.
const DefaultQuantity = 1

var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one requested catalog item of an order. Lines are immutable and
// owned by their order.
type Line struct {
	itemID   int64
	quantity int

	guard guard.ConstructorGuard
}

// NewLine builds an order line. A zero quantity means "not specified" and
// becomes DefaultQuantity; negative quantities are rejected. The item id is
// not checked here: whether it exists is decided against the catalog, so
// ids such as 0 are reported together with the other unknown items.
func NewLine(itemID int64, quantity int) (Line, error) {
	if quantity < 0 {
		return Line{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if quantity == 0 {
		quantity = DefaultQuantity
	}
	return Line{itemID: itemID, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
}

func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

func (l Line) ItemID() int64 {
	return l.itemID
}

func (l Line) Quantity() int {
	return l.quantity
}
