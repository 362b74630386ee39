// Package ports defines the contracts between the order intake core and the
// infrastructure around it: persistence, event publication, outbound
// delivery and scheduling.
package ports

import (
	"context"

	"inflight/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add inserts the order together with its lines and assigns the
	// store-generated id to the aggregate.
	// A duplicate idempotency key is reported as errs.ErrConflict.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable state of an existing order (its status).
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines.
	// Returns errs.ErrObjectNotFound when the order does not exist.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// FindByIdempotencyKey retrieves the order created with key.
	// Returns errs.ErrObjectNotFound when no order carries the key.
	FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)
}

// ItemRepository answers catalog existence questions for order intake.
type ItemRepository interface {
	// FindMissing returns the ids that do not resolve to a catalog item,
	// de-duplicated and in the order they were first requested.
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)
}
