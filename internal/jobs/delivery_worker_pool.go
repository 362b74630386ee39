package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"inflight/internal/pkg/errs"
)

// DeliverFunc performs one delivery attempt for a message.
type DeliverFunc func(ctx context.Context, messageID int64) error

// Runner is a long-running background component. Run blocks until ctx is
// cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

const (
	DefaultDeliveryWorkers   = 2
	DefaultDeliveryQueueSize = 1024
)

// DeliveryWorkerPool is the in-process delivery queue.
//
// An id that is already queued or being delivered is not accepted again, so
// overlapping retry sweeps never run two attempts for the same message in
// this process. A full queue rejects the id; the message stays pending for
// the next sweep.
type DeliveryWorkerPool struct {
	deliver DeliverFunc
	workers int
	queue   chan int64

	mu      sync.Mutex
	pending map[int64]struct{}

	logger *slog.Logger
}

// NewDeliveryWorkerPool creates a pool with the given number of workers and
// queue capacity. Non-positive values fall back to the defaults. Workers start
// with Run.
//
// Example:
//
//	pool := jobs.NewDeliveryWorkerPool(deliver, 2, 1024, logger)
//	go pool.Run(ctx)
//	pool.Schedule(ctx, messageID)
func NewDeliveryWorkerPool(deliver DeliverFunc, workers, queueSize int, logger *slog.Logger) *DeliveryWorkerPool {
	if workers <= 0 {
		workers = DefaultDeliveryWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultDeliveryQueueSize
	}
	return &DeliveryWorkerPool{
		deliver: deliver,
		workers: workers,
		queue:   make(chan int64, queueSize),
		pending: make(map[int64]struct{}),
		logger:  logger.With("component", "delivery_worker_pool"),
	}
}

// Schedule never blocks.
func (p *DeliveryWorkerPool) Schedule(ctx context.Context, messageID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[messageID]; ok {
		return false
	}

	select {
	case p.queue <- messageID:
		p.pending[messageID] = struct{}{}
		return true
	default:
		p.logger.WarnContext(ctx, "delivery queue full, leaving message for the retry sweep", "message_id", messageID)
		return false
	}
}

// Pending returns the number of ids queued or in flight.
func (p *DeliveryWorkerPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Run starts the workers and waits for them to exit after ctx is cancelled.
// Ids still queued at that point stay pending in the store.
func (p *DeliveryWorkerPool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx, i)
		}()
	}

	p.logger.InfoContext(ctx, "Delivery workers started", "workers", p.workers)
	wg.Wait()
	p.logger.Info("Delivery workers stopped")
	return nil
}

func (p *DeliveryWorkerPool) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-p.queue:
			logDeliveryResult(ctx, p.logger, worker, id, p.deliver(ctx, id))

			p.mu.Lock()
			delete(p.pending, id)
			p.mu.Unlock()
		}
	}
}

func logDeliveryResult(ctx context.Context, logger *slog.Logger, worker int, id int64, err error) {
	switch {
	case err == nil:
		logger.DebugContext(ctx, "delivery attempt finished", "worker", worker, "message_id", id)
	case errors.Is(err, errs.ErrDeliveryFailed):
		logger.WarnContext(ctx, "delivery failed, message stays pending", "worker", worker, "message_id", id, "error", err)
	case errors.Is(err, context.Canceled):
		logger.InfoContext(ctx, "delivery interrupted by shutdown", "worker", worker, "message_id", id)
	default:
		logger.ErrorContext(ctx, "delivery attempt errored", "worker", worker, "message_id", id, "error", err)
	}
}
