package commands

import (
	"errors"
	"fmt"

	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

var ErrDeliverOutgoingMessageCommandIsNotConstructed = errors.New(
	"DeliverOutgoingMessageCommand must be created via NewDeliverOutgoingMessageCommand constructor",
)

// DeliverOutgoingMessageCommand is one delivery attempt for one message.
type DeliverOutgoingMessageCommand struct { //nolint:recvcheck //using for validation
	messageID int64

	guard guard.ConstructorGuard
}

func NewDeliverOutgoingMessageCommand(messageID int64) (DeliverOutgoingMessageCommand, error) {
	if messageID <= 0 {
		return DeliverOutgoingMessageCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"messageId", fmt.Errorf("%d is not a positive id", messageID),
		)
	}

	return DeliverOutgoingMessageCommand{
		messageID: messageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverOutgoingMessageCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOutgoingMessageCommandIsNotConstructed)
}

func (c DeliverOutgoingMessageCommand) MessageID() int64 {
	return c.messageID
}
