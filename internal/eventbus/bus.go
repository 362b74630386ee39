// Package eventbus broadcasts domain events to live subscribers.
//
// Every subscriber owns a bounded mailbox. Publishing never blocks: when a
// mailbox is full its oldest pending event is dropped to make room, so one
// slow or abandoned connection can neither stall order intake nor grow
// without bound. A subscriber only sees events published while it is
// registered; there is no replay.
package eventbus

import (
	"log/slog"
	"sync"
	"time"

	"inflight/internal/core/domain/event"

	"github.com/google/uuid"
)

// DefaultMailboxSize is used when NewBus is given a non-positive size.
const DefaultMailboxSize = 64

// Bus is the in-process broadcaster. The zero value is not usable; create
// one with NewBus and share it by pointer.
type Bus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*Subscription

	mailboxSize int
	logger      *slog.Logger
	now         func() time.Time
}

// NewBus creates a bus whose subscribers each get a mailbox of mailboxSize
// envelopes. A non-positive size uses DefaultMailboxSize.
//
// Example:
//
//	bus := eventbus.NewBus(64, logger)
//	sub := bus.Subscribe()
//	defer bus.Unsubscribe(sub)
//	for env := range sub.Events() {
//	    // write env as one frame
//	}
func NewBus(mailboxSize int, logger *slog.Logger) *Bus {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:        make(map[uuid.UUID]*Subscription),
		mailboxSize: mailboxSize,
		logger:      logger.With("component", "eventbus"),
		now:         time.Now,
	}
}

// Subscribe registers a new mailbox. Events published after Subscribe
// returns are delivered to it.
func (b *Bus) Subscribe() *Subscription {
	sub := newSubscription(b.mailboxSize)

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	b.logger.Debug("subscriber registered", "subscriber", sub.id)
	return sub
}

// Unsubscribe removes sub and closes its mailbox. Calling it more than once
// is safe.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	delete(b.subs, sub.id)
	b.mu.Unlock()

	if sub.close() {
		b.logger.Debug("subscriber unregistered", "subscriber", sub.id, "dropped", sub.Dropped())
	}
}

// Publish wraps e in a fresh envelope and delivers it to every subscriber.
func (b *Bus) Publish(e event.Event) {
	b.Deliver(event.NewEnvelope(e, b.now()))
}

// Deliver fans an already built envelope out to the current subscribers.
// It is used directly by bridges that receive envelopes from other
// processes.
func (b *Bus) Deliver(env event.Envelope) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		if dropped, _ := sub.offer(env); dropped {
			b.logger.Warn("subscriber mailbox full, dropped oldest event",
				"subscriber", sub.id,
				"event_type", env.Type,
				"order_id", env.OrderID,
			)
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close unregisters every subscriber, ending their streams.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uuid.UUID]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
