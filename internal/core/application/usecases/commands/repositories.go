// Package commands contains business operations that modify system state.
// Every command follows the same pattern: constructor validation, a unit of
// work around the writes, and side effects (events, scheduling) only after
// the commit succeeded.
package commands

import (
	"context"

	"inflight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ItemRepoFactory interface {
		ItemRepository() ports.ItemRepository
	}

	OutgoingMessageRepoFactory interface {
		OutgoingMessageRepository() ports.OutgoingMessageRepository
	}

	// OrderUoW manages transactions for order intake and status updates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   missing, err := uow.ItemRepository().FindMissing(ctx, ids)
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ItemRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// MessageUoW manages transactions for the outbound delivery queue.
	MessageUoW interface {
		TxManager
		OutgoingMessageRepoFactory
	}

	// MessageUoWFactory creates new message unit of work instances.
	MessageUoWFactory interface {
		Create() MessageUoW
	}
)
