package commands

import (
	"errors"

	"inflight/internal/pkg/guard"
)

var ErrRetryPendingMessagesCommandIsNotConstructed = errors.New(
	"RetryPendingMessagesCommand must be created via NewRetryPendingMessagesCommand constructor",
)

// RetryPendingMessagesCommand re-drives delivery of every unsent message.
// This is a parameterless command used by the HTTP recovery endpoint and the
// periodic sweep job.
type RetryPendingMessagesCommand struct {
	guard guard.ConstructorGuard
}

func NewRetryPendingMessagesCommand() RetryPendingMessagesCommand {
	return RetryPendingMessagesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *RetryPendingMessagesCommand) Validate() error {
	return c.guard.Validate(ErrRetryPendingMessagesCommandIsNotConstructed)
}
