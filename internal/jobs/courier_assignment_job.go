package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingBatchesAssigner is satisfied by commands.AssignPendingBatchesCommandHandler.
type PendingBatchesAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignPendingBatchesCommand) (commands.AssignPendingBatchesResult, error)
}

// CourierAssignmentJob manages the scheduled assignment of couriers to pending batches.
type CourierAssignmentJob struct {
	handler  PendingBatchesAssigner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCourierAssignmentJob creates a job that runs AssignPendingBatches on schedule.
func NewCourierAssignmentJob(handler PendingBatchesAssigner, schedule string, logger *slog.Logger) *CourierAssignmentJob {
	return &CourierAssignmentJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "courier_assignment_job"),
	}
}

// Start registers the job with its schedule and starts the scheduler.
func (j *CourierAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Courier assignment job started", "schedule", j.schedule)
	return nil
}

// Run performs a single pass.
func (j *CourierAssignmentJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewAssignPendingBatchesCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Courier assignment job failed", "error", err)
		return
	}

	switch {
	case result.Failed > 0:
		j.logger.WarnContext(ctx, "Courier assignment finished with failures",
			"assigned", result.Assigned, "waiting", result.Waiting, "failed", result.Failed)
	case result.Assigned > 0:
		j.logger.InfoContext(ctx, "Couriers assigned", "assigned", result.Assigned, "waiting", result.Waiting)
	default:
		j.logger.DebugContext(ctx, "No courier assigned", "waiting", result.Waiting)
	}
}

// Stop stops the courier assignment job.
func (j *CourierAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Courier assignment job stopped")
}

func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
