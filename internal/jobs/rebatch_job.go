package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// UnbatchedOrdersAssigner is satisfied by commands.AssignUnbatchedOrdersCommandHandler.
type UnbatchedOrdersAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignUnbatchedOrdersCommand) (commands.AssignUnbatchedOrdersResult, error)
}

// RebatchJob sweeps orders that are stored but not in any batch.
type RebatchJob struct {
	handler  UnbatchedOrdersAssigner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewRebatchJob(handler UnbatchedOrdersAssigner, schedule string, logger *slog.Logger) *RebatchJob {
	return &RebatchJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "rebatch_job"),
	}
}

func (j *RebatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rebatch job started", "schedule", j.schedule)
	return nil
}

func (j *RebatchJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewAssignUnbatchedOrdersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Rebatch job failed", "error", err)
		return
	}

	switch {
	case result.Failed > 0:
		j.logger.WarnContext(ctx, "Rebatch finished with failures",
			"batched", result.Batched, "deferred", result.Deferred, "failed", result.Failed)
	case result.Batched > 0:
		j.logger.InfoContext(ctx, "Orders rebatched", "batched", result.Batched, "deferred", result.Deferred)
	default:
		j.logger.DebugContext(ctx, "Nothing to rebatch", "deferred", result.Deferred)
	}
}

func (j *RebatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Rebatch job stopped")
}
