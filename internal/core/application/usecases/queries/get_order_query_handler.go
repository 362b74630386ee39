package queries

import (
	"context"
	"database/sql"
	"errors"

	"inflight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with its lines and item names.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates the handler over db.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	var paymentMethod sql.NullString

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			seat,
			status,
			payment_method,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row()
	if err := row.Scan(&resp.ID, &resp.Seat, &resp.Status, &paymentMethod, &resp.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderQueryResponse{}, err
	}
	if paymentMethod.Valid {
		resp.PaymentMethod = &paymentMethod.String
	}
	resp.CreatedAt = resp.CreatedAt.UTC()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.item_id,
			i.name,
			oi.quantity
		FROM order_items oi
		LEFT JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`, query.OrderID()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	resp.Lines = make([]GetOrderQueryLine, 0)
	for rows.Next() {
		var line GetOrderQueryLine
		var name sql.NullString
		if err = rows.Scan(&line.ItemID, &name, &line.Quantity); err != nil {
			return GetOrderQueryResponse{}, err
		}
		line.ItemName = name.String
		resp.Lines = append(resp.Lines, line)
	}

	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
