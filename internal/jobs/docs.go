// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to keep batches moving without an operator.
//
// # Available Jobs
//
// 1. CourierAssignmentJob - attaches free couriers to Pending batches, oldest first
// 2. RebatchJob - batches orders that were released by a deleted batch or deferred by AssignOrder
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(assignPendingHandler, assignUnbatchedHandler, "*/5 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are cron expressions with a leading seconds field. A run that is
// still busy when the next tick fires makes that tick a no-op.
//
// # Error Handling
//
// - A tick with nothing to do is logged at debug level only
// - Per-item failures are counted by the command and reported as a warning
// - Failed job starts will stop any already running jobs
package jobs
