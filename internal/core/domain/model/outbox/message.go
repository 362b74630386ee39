// Package outbox models messages queued for delivery to external systems
// (the AI assistant, the ground sync service). A message is persisted before
// it is handed to a delivery worker so that a crash between enqueue and send
// only delays delivery.
package outbox

import (
	"errors"
	"fmt"
	"time"

	"inflight/internal/pkg/errs"
)

var (
	ErrMessageIsNotConstructed  = errors.New("Message must be created via NewMessage constructor")
	ErrMessageAlreadySent       = errors.New("message is already sent")
	ErrMessageIDAlreadyAssigned = errors.New("message id is already assigned")
)

// Well known delivery targets.
const (
	TargetAI     = "ai"
	TargetGround = "ground"
)

// Message is an outgoing payload together with its delivery bookkeeping.
//
// Once sent is true it never becomes false again.
type Message struct {
	id        int64
	target    string
	payload   []byte
	sent      bool
	attempts  int
	lastError string
	createdAt time.Time
	sentAt    *time.Time

	isConstructed bool
}

func NewMessage(target string, payload []byte, createdAt time.Time) (*Message, error) {
	if target == "" {
		return nil, errs.NewValueIsRequiredError("target")
	}
	if len(payload) == 0 {
		return nil, errs.NewValueIsRequiredError("payload")
	}

	return &Message{
		target:        target,
		payload:       append([]byte(nil), payload...),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreMessage rebuilds a persisted message.
func RestoreMessage(
	id int64,
	target string,
	payload []byte,
	sent bool,
	attempts int,
	lastError string,
	createdAt time.Time,
	sentAt *time.Time,
) (*Message, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive id", id))
	}
	if attempts < 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempts", attempts, 0, "unbounded")
	}

	m, err := NewMessage(target, payload, createdAt)
	if err != nil {
		return nil, err
	}
	m.id = id
	m.sent = sent
	m.attempts = attempts
	m.lastError = lastError
	if sentAt != nil {
		at := sentAt.UTC()
		m.sentAt = &at
	}
	return m, nil
}

func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

func (m *Message) AssignID(id int64) error {
	if m.id != 0 {
		return ErrMessageIDAlreadyAssigned
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive id", id))
	}
	m.id = id
	return nil
}

// MarkSent records a successful delivery.
func (m *Message) MarkSent(at time.Time) error {
	if m.sent {
		return ErrMessageAlreadySent
	}
	at = at.UTC()
	m.sent = true
	m.sentAt = &at
	m.attempts++
	m.lastError = ""
	return nil
}

// RecordFailure records a failed delivery attempt. The message stays pending.
func (m *Message) RecordFailure(cause error) {
	m.attempts++
	if cause != nil {
		m.lastError = cause.Error()
	}
}

func (m *Message) ID() int64 {
	return m.id
}

func (m *Message) Target() string {
	return m.target
}

// Payload returns a copy of the raw payload.
func (m *Message) Payload() []byte {
	return append([]byte(nil), m.payload...)
}

func (m *Message) IsSent() bool {
	return m.sent
}

func (m *Message) Attempts() int {
	return m.attempts
}

func (m *Message) LastError() string {
	return m.lastError
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) SentAt() (time.Time, bool) {
	if m.sentAt == nil {
		return time.Time{}, false
	}
	return *m.sentAt, true
}
