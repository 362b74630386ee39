// Package jobs runs the background work of outbound delivery.
//
// # Components
//
//  1. DeliveryWorkerPool - in-process queue of message ids drained by a fixed
//     number of goroutines, each performing one delivery attempt per id
//  2. RetryPendingJob - cron job that re-schedules every unsent message
//     (default every 30 seconds, "*/30 * * * * *")
//  3. JobManager - starts and stops the cron job and any Runner (the worker
//     pool or the Redis queue consumer) together
//
// # Usage
//
//	pool := jobs.NewDeliveryWorkerPool(deliver, 2, 1024, logger)
//	retry := jobs.NewRetryPendingJob(retryHandler, "*/30 * * * * *", logger)
//	manager := jobs.NewJobManager(retry, logger, pool)
//
//	if err := manager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// Delivery failures are logged and swallowed: the message stays pending and
// the next sweep schedules it again. Nothing here ever marks a message sent.
package jobs
