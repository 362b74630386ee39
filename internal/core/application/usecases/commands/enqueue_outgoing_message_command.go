package commands

import (
	"errors"

	"inflight/internal/pkg/errs"
	"inflight/internal/pkg/guard"
)

var ErrEnqueueOutgoingMessageCommandIsNotConstructed = errors.New(
	"EnqueueOutgoingMessageCommand must be created via NewEnqueueOutgoingMessageCommand constructor",
)

// EnqueueOutgoingMessageCommand queues an opaque payload for an external
// system identified by target.
//
// Example:
//
//	cmd, _ := NewEnqueueOutgoingMessageCommand(outbox.TargetAI, []byte(`{"question":"menu?"}`))
//	id, err := handler.Handle(ctx, cmd)
type EnqueueOutgoingMessageCommand struct { //nolint:recvcheck //using for validation
	target  string
	payload []byte

	guard guard.ConstructorGuard
}

func NewEnqueueOutgoingMessageCommand(target string, payload []byte) (EnqueueOutgoingMessageCommand, error) {
	cmd := EnqueueOutgoingMessageCommand{guard: guard.NewConstructorGuard()}

	var errList []error
	if target == "" {
		errList = append(errList, errs.NewValueIsRequiredError("target"))
	}
	if len(payload) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("payload"))
	}
	if err := errors.Join(errList...); err != nil {
		return EnqueueOutgoingMessageCommand{}, err
	}

	cmd.target = target
	cmd.payload = append([]byte(nil), payload...)
	return cmd, nil
}

func (c EnqueueOutgoingMessageCommand) Validate() error {
	return c.guard.Validate(ErrEnqueueOutgoingMessageCommandIsNotConstructed)
}

func (c EnqueueOutgoingMessageCommand) Target() string {
	return c.target
}

func (c EnqueueOutgoingMessageCommand) Payload() []byte {
	return append([]byte(nil), c.payload...)
}
