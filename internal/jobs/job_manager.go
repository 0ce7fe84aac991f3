package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	courierAssignmentJob *CourierAssignmentJob
	rebatchJob           *RebatchJob
}

// NewJobManager creates a job manager running both jobs on the same schedule.
func NewJobManager(
	assignPendingHandler PendingBatchesAssigner,
	assignUnbatchedHandler UnbatchedOrdersAssigner,
	schedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		courierAssignmentJob: NewCourierAssignmentJob(assignPendingHandler, schedule, logger),
		rebatchJob:           NewRebatchJob(assignUnbatchedHandler, schedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.rebatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start rebatch job: %w", err)
	}

	if err := jm.courierAssignmentJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.rebatchJob.Stop()
		return fmt.Errorf("failed to start courier assignment job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.courierAssignmentJob.Stop()
	jm.rebatchJob.Stop()
}
