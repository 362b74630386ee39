package jobs

import (
	"context"
	"log/slog"

	"inflight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRetrySchedule runs the sweep every 30 seconds.
const DefaultRetrySchedule = "*/30 * * * * *"

// PendingRetrier re-schedules unsent messages.
type PendingRetrier interface {
	Handle(ctx context.Context, cmd commands.RetryPendingMessagesCommand) (int, error)
}

// RetryPendingJob periodically re-drives delivery of unsent messages.
type RetryPendingJob struct {
	handler  PendingRetrier
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRetryPendingJob accepts a six-field cron expression (with seconds).
func NewRetryPendingJob(handler PendingRetrier, schedule string, logger *slog.Logger) *RetryPendingJob {
	if schedule == "" {
		schedule = DefaultRetrySchedule
	}
	return &RetryPendingJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "retry_pending_job"),
	}
}

// Start registers the sweep on its schedule and starts the scheduler.
func (j *RetryPendingJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Retry pending job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single sweep and returns how many messages were
// scheduled.
func (j *RetryPendingJob) RunOnce(ctx context.Context) (int, error) {
	n, err := j.handler.Handle(ctx, commands.NewRetryPendingMessagesCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Retry pending job failed", "error", err)
		return 0, err
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Pending messages rescheduled", "count", n)
	}
	return n, nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (j *RetryPendingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Retry pending job stopped")
}
