package eventbus

import (
	"sync"

	"inflight/internal/core/domain/event"

	"github.com/google/uuid"
)

// Subscription is one subscriber's mailbox. It is owned by the connection
// that created it and must be handed back to Bus.Unsubscribe when the
// connection ends.
type Subscription struct {
	id uuid.UUID

	mu      sync.Mutex
	mailbox chan event.Envelope
	closed  bool
	dropped uint64
}

func newSubscription(size int) *Subscription {
	if size < 1 {
		size = 1
	}
	return &Subscription{
		id:      uuid.New(),
		mailbox: make(chan event.Envelope, size),
	}
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Events yields delivered envelopes. The channel is closed on unsubscribe.
func (s *Subscription) Events() <-chan event.Envelope {
	return s.mailbox
}

// Dropped returns how many envelopes were discarded because the mailbox was
// full.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// offer enqueues env without blocking. When the mailbox is full the oldest
// pending envelope is discarded first. It reports whether something was
// dropped and whether the subscription was still open.
func (s *Subscription) offer(env event.Envelope) (dropped bool, delivered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, false
	}

	for {
		select {
		case s.mailbox <- env:
			return dropped, true
		default:
		}

		// Full. The reader may drain concurrently, so the receive can miss.
		select {
		case <-s.mailbox:
			s.dropped++
			dropped = true
		default:
		}
	}
}

// close is idempotent. Closing happens under the same mutex as offer so a
// publish never sends on a closed channel.
func (s *Subscription) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.closed = true
	close(s.mailbox)
	return true
}
