package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"inflight/internal/pkg/errs"
)

// MaxSeatLength matches the width of the seat column.
const MaxSeatLength = 10

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIDAlreadyAssigned is returned when the store tries to assign an
	// identity to an order that already has one.
	ErrOrderIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Order is the aggregate root of a passenger order.
//
// Invariants:
//   - seat is non-empty and at most MaxSeatLength characters
//   - status belongs to the fixed status set
//   - lines are validated and never change after creation
//   - the id is zero until the store assigns it, then immutable
type Order struct {
	id             int64
	seat           string
	status         Status
	idempotencyKey *string
	paymentMethod  *string
	createdAt      time.Time
	lines          []Line

	isConstructed bool
}

// NewOrder creates an order in status New. Empty paymentMethod or
// idempotencyKey mean the value was not supplied.
//
// Example:
//
//	line, _ := order.NewLine(7, 2)
//	o, err := order.NewOrder("12A", []order.Line{line}, "", "abc", time.Now())
func NewOrder(seat string, lines []Line, paymentMethod, idempotencyKey string, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:         New,
		paymentMethod:  optional(paymentMethod),
		idempotencyKey: optional(idempotencyKey),
		createdAt:      createdAt.UTC(),
		isConstructed:  true,
	}

	if err := errors.Join(
		o.setSeat(seat),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds a persisted order.
func RestoreOrder(
	id int64,
	seat string,
	status Status,
	paymentMethod, idempotencyKey *string,
	createdAt time.Time,
	lines []Line,
) (*Order, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive id", id))
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		id:             id,
		status:         status,
		paymentMethod:  paymentMethod,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt.UTC(),
		isConstructed:  true,
	}
	if err := errors.Join(o.setSeat(seat), o.setLines(lines)); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID records the identity chosen by the store on insert.
func (o *Order) AssignID(id int64) error {
	if o.id != 0 {
		return ErrOrderIDAlreadyAssigned
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive id", id))
	}
	o.id = id
	return nil
}

// ChangeStatus moves the order to s and reports whether anything changed.
func (o *Order) ChangeStatus(s Status) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	if o.status == s {
		return false, nil
	}
	o.status = s
	return true, nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Seat() string {
	return o.seat
}

func (o *Order) Status() Status {
	return o.status
}

// IdempotencyKey returns the client supplied key, if any.
func (o *Order) IdempotencyKey() (string, bool) {
	if o.idempotencyKey == nil {
		return "", false
	}
	return *o.idempotencyKey, true
}

// PaymentMethod returns the payment method, if any.
func (o *Order) PaymentMethod() (string, bool) {
	if o.paymentMethod == nil {
		return "", false
	}
	return *o.paymentMethod, true
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

func (o *Order) setSeat(seat string) error {
	if seat == "" {
		return errs.NewValueIsRequiredError("seat")
	}
	if n := utf8.RuneCountInString(seat); n > MaxSeatLength {
		return errs.NewValueIsOutOfRangeError("seat length", n, 1, MaxSeatLength)
	}
	o.seat = seat
	return nil
}

func (o *Order) setLines(lines []Line) error {
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
