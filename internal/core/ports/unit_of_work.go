package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained from it use the transaction started by Begin; before
// Begin they run against the plain connection pool.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. It is a no-op when the
	// transaction was already committed or never started.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ItemRepository() ItemRepository
	OutgoingMessageRepository() OutgoingMessageRepository
}
