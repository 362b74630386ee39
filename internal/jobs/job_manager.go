package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// JobManager coordinates the background work of the service.
type JobManager struct {
	retryJob *RetryPendingJob
	runners  []Runner
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJobManager groups the retry sweep with the runners it must start first.
func NewJobManager(retryJob *RetryPendingJob, logger *slog.Logger, runners ...Runner) *JobManager {
	return &JobManager{
		retryJob: retryJob,
		runners:  runners,
		logger:   logger.With("component", "job_manager"),
	}
}

// StartAll starts the runners, performs one recovery sweep for messages
// left pending by a previous process, then starts the periodic sweep.
func (jm *JobManager) StartAll(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	jm.cancel = cancel

	for _, r := range jm.runners {
		jm.wg.Add(1)
		go func() {
			defer jm.wg.Done()
			if err := r.Run(runCtx); err != nil {
				jm.logger.ErrorContext(runCtx, "background runner stopped with error", "error", err)
			}
		}()
	}

	if _, err := jm.retryJob.RunOnce(ctx); err != nil {
		jm.logger.WarnContext(ctx, "startup recovery sweep failed", "error", err)
	}

	if err := jm.retryJob.Start(); err != nil {
		jm.stopRunners()
		return fmt.Errorf("failed to start retry pending job: %w", err)
	}

	return nil
}

// StopAll stops the sweep first so nothing new is scheduled, then the
// runners.
func (jm *JobManager) StopAll() {
	jm.retryJob.Stop()
	jm.stopRunners()
}

func (jm *JobManager) stopRunners() {
	if jm.cancel != nil {
		jm.cancel()
	}
	jm.wg.Wait()
}
