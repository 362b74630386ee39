// Package redisqueue is a delivery queue shared by every service instance.
// Message ids are pushed to a Redis list and popped by workers in any
// instance; a per-id marker key keeps an id from being queued twice while it
// waits or is being delivered.
package redisqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"inflight/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "inflight:delivery"
	DefaultMarkerTTL = 5 * time.Minute
	DefaultWorkers   = 2

	popTimeout = time.Second
)

// DeliverFunc performs one delivery attempt for a message.
type DeliverFunc func(ctx context.Context, messageID int64) error

// Queue is a delivery scheduler shared by every instance through a Redis
// list. A marker key per id keeps a message queued at most once until a
// worker has finished with it.
type Queue struct {
	rdb       goredis.UniversalClient
	deliver   DeliverFunc
	workers   int
	listKey   string
	prefix    string
	markerTTL time.Duration
	logger    *slog.Logger
}

// Options tunes a Queue. Zero values take the package defaults.
type Options struct {
	KeyPrefix string
	Workers   int
	// MarkerTTL bounds how long a lost id (worker crash mid-delivery) blocks
	// re-scheduling.
	MarkerTTL time.Duration
}

// New creates a queue on rdb that hands ids to deliver. Workers start with
// Run.
//
// Example:
//
//	q := redisqueue.New(rdb, deliver, redisqueue.Options{Workers: 4}, logger)
//	go q.Run(ctx)
//	q.Schedule(ctx, messageID)
func New(rdb goredis.UniversalClient, deliver DeliverFunc, opts Options, logger *slog.Logger) *Queue {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MarkerTTL <= 0 {
		opts.MarkerTTL = DefaultMarkerTTL
	}
	return &Queue{
		rdb:       rdb,
		deliver:   deliver,
		workers:   opts.Workers,
		listKey:   opts.KeyPrefix + ":queue",
		prefix:    opts.KeyPrefix,
		markerTTL: opts.MarkerTTL,
		logger:    logger.With("component", "redisqueue"),
	}
}

func (q *Queue) markerKey(id int64) string {
	return fmt.Sprintf("%s:pending:%d", q.prefix, id)
}

// Schedule queues id unless it is already queued or in flight anywhere.
func (q *Queue) Schedule(ctx context.Context, messageID int64) bool {
	marker := q.markerKey(messageID)
	ok, err := q.rdb.SetNX(ctx, marker, 1, q.markerTTL).Result()
	if err != nil {
		q.logger.WarnContext(ctx, "cannot mark message as queued", "message_id", messageID, "error", err)
		return false
	}
	if !ok {
		return false
	}

	if err = q.rdb.LPush(ctx, q.listKey, messageID).Err(); err != nil {
		q.logger.WarnContext(ctx, "cannot push message to queue", "message_id", messageID, "error", err)
		_ = q.rdb.Del(context.WithoutCancel(ctx), marker).Err()
		return false
	}
	return true
}

// Len returns the number of ids waiting in the list.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.listKey).Result()
}

// Run pops and delivers ids until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := range q.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.work(ctx, i)
		}()
	}

	q.logger.InfoContext(ctx, "Redis delivery workers started", "workers", q.workers, "list", q.listKey)
	wg.Wait()
	q.logger.Info("Redis delivery workers stopped")
	return nil
}

func (q *Queue) work(ctx context.Context, worker int) {
	for ctx.Err() == nil {
		res, err := q.rdb.BRPop(ctx, popTimeout, q.listKey).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) || ctx.Err() != nil {
				continue
			}
			q.logger.WarnContext(ctx, "queue pop failed", "worker", worker, "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(popTimeout):
			}
			continue
		}

		// BRPop returns [key, value].
		id, err := strconv.ParseInt(res[1], 10, 64)
		if err != nil {
			q.logger.ErrorContext(ctx, "bad message id in queue", "value", res[1])
			continue
		}

		q.handle(ctx, worker, id)
	}
}

func (q *Queue) handle(ctx context.Context, worker int, id int64) {
	err := q.deliver(ctx, id)
	switch {
	case err == nil:
		q.logger.DebugContext(ctx, "delivery attempt finished", "worker", worker, "message_id", id)
	case errors.Is(err, errs.ErrDeliveryFailed):
		q.logger.WarnContext(ctx, "delivery failed, message stays pending", "worker", worker, "message_id", id, "error", err)
	default:
		q.logger.ErrorContext(ctx, "delivery attempt errored", "worker", worker, "message_id", id, "error", err)
	}

	if err = q.rdb.Del(context.WithoutCancel(ctx), q.markerKey(id)).Err(); err != nil {
		q.logger.WarnContext(ctx, "cannot clear queued marker", "message_id", id, "error", err)
	}
}
