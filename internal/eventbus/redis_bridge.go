package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inflight/internal/core/domain/event"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRedisChannel = "inflight:events"

	bridgeBufferSize   = 256
	bridgePublishLimit = 2 * time.Second
)

// wireMessage is the Redis payload. Origin lets an instance skip the events
// it published itself, which it has already delivered locally.
type wireMessage struct {
	Origin   string         `json:"origin"`
	Envelope event.Envelope `json:"envelope"`
}

// RedisBridge extends a Bus across service instances over Redis Pub/Sub.
// Local subscribers are served first and synchronously; the Redis publish
// happens on a background goroutine in publish order.
type RedisBridge struct {
	bus     *Bus
	rdb     goredis.UniversalClient
	channel string
	origin  string
	out     chan event.Envelope
	logger  *slog.Logger
}

// NewRedisBridge creates a bridge for bus on channel. Nothing crosses
// instances until Run is called.
func NewRedisBridge(bus *Bus, rdb goredis.UniversalClient, channel string, logger *slog.Logger) *RedisBridge {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	origin := uuid.NewString()
	return &RedisBridge{
		bus:     bus,
		rdb:     rdb,
		channel: channel,
		origin:  origin,
		out:     make(chan event.Envelope, bridgeBufferSize),
		logger:  logger.With("component", "eventbus.redis", "origin", origin),
	}
}

// Origin identifies this instance on the shared channel.
func (r *RedisBridge) Origin() string {
	return r.origin
}

// Publish delivers e to local subscribers and queues it for the other
// instances. A full outbound buffer drops the remote copy only.
func (r *RedisBridge) Publish(e event.Event) {
	env := event.NewEnvelope(e, r.bus.now())
	r.bus.Deliver(env)

	select {
	case r.out <- env:
	default:
		r.logger.Warn("redis bridge buffer full, event not forwarded",
			"event_type", env.Type,
			"order_id", env.OrderID,
		)
	}
}

// Run subscribes to the channel and pumps events both ways until ctx is
// cancelled. It returns an error only when the subscription cannot be
// established.
func (r *RedisBridge) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}
	defer sub.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.forwardIncoming(ctx, sub.Channel())
		return nil
	})
	g.Go(func() error {
		r.publishOutgoing(ctx)
		return nil
	})
	return g.Wait()
}

func (r *RedisBridge) forwardIncoming(ctx context.Context, ch <-chan *goredis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var msg wireMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				r.logger.Warn("bad redis event payload", "error", err)
				continue
			}
			if msg.Origin == r.origin {
				continue
			}
			r.bus.Deliver(msg.Envelope)
		}
	}
}

func (r *RedisBridge) publishOutgoing(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-r.out:
			raw, err := json.Marshal(wireMessage{Origin: r.origin, Envelope: env})
			if err != nil {
				r.logger.Error("encode event", "error", err)
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, bridgePublishLimit)
			err = r.rdb.Publish(pubCtx, r.channel, raw).Err()
			cancel()
			if err != nil {
				r.logger.Warn("redis publish failed", "error", err, "event_type", env.Type, "order_id", env.OrderID)
			}
		}
	}
}
