// Package orderrepo persists order aggregates and their lines.
package orderrepo

import (
	"time"

	"inflight/internal/core/domain/model/order"
)

// OrderDTO is the row of the orders table. The partial uniqueness of
// idempotency_key comes from NULLs never colliding in a unique index.
type OrderDTO struct {
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	Seat           string         `gorm:"type:varchar(10);not null"`
	Status         string         `gorm:"type:varchar(20);not null;default:new;index"`
	IdempotencyKey *string        `gorm:"type:varchar(255);uniqueIndex"`
	PaymentMethod  *string        `gorm:"type:varchar(50)"`
	CreatedAt      time.Time      `gorm:"not null"`
	Lines          []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is the row of the order_items table.
type OrderLineDTO struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	OrderID  int64 `gorm:"not null;index"`
	ItemID   int64 `gorm:"not null;index"`
	Quantity int   `gorm:"not null;default:1"`
}

func (OrderLineDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:        o.ID(),
		Seat:      o.Seat(),
		Status:    o.Status().String(),
		CreatedAt: o.CreatedAt(),
	}
	if key, ok := o.IdempotencyKey(); ok {
		dto.IdempotencyKey = &key
	}
	if pm, ok := o.PaymentMethod(); ok {
		dto.PaymentMethod = &pm
	}

	lines := o.Lines()
	dto.Lines = make([]OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			OrderID:  o.ID(),
			ItemID:   l.ItemID(),
			Quantity: l.Quantity(),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, err := order.NewLine(l.ItemID, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(
		dto.ID,
		dto.Seat,
		order.Status(dto.Status),
		dto.PaymentMethod,
		dto.IdempotencyKey,
		dto.CreatedAt,
		lines,
	)
}
