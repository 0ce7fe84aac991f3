package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/services"
)

// AssignUnbatchedOrdersResult counts what happened to the swept orders.
type AssignUnbatchedOrdersResult struct {
	Batched  int
	Deferred int
	Failed   int
}

// AssignUnbatchedOrdersCommandHandler runs AssignOrder for every unbatched order in
// placement order. Each order gets its own transaction, so one failure does not
// undo the others; failures are logged and counted.
type AssignUnbatchedOrdersCommandHandler struct {
	uowFactory UoWFactory
	assign     AssignOrderCommandHandler
	logger     *slog.Logger
}

func NewAssignUnbatchedOrdersCommandHandler(
	uowFactory UoWFactory,
	assign AssignOrderCommandHandler,
	logger *slog.Logger,
) AssignUnbatchedOrdersCommandHandler {
	return AssignUnbatchedOrdersCommandHandler{
		uowFactory: uowFactory,
		assign:     assign,
		logger:     orNop(logger).With("component", "AssignUnbatchedOrdersCommandHandler"),
	}
}

func (h AssignUnbatchedOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AssignUnbatchedOrdersCommand,
) (AssignUnbatchedOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignUnbatchedOrdersResult{}, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().GetUnbatched(ctx)
	if err != nil {
		return AssignUnbatchedOrdersResult{}, err
	}

	var result AssignUnbatchedOrdersResult
	for _, o := range orders {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		assignCmd, err := NewAssignOrderCommand(o.ID())
		if err != nil {
			return result, err
		}

		assigned, err := h.assign.Handle(ctx, assignCmd)
		switch {
		case errors.Is(err, ErrOrderAlreadyBatched):
			// batched concurrently since the sweep started
		case err != nil:
			result.Failed++
			h.logger.WarnContext(ctx, "failed to assign order", "order_id", o.ID().String(), "error", err)
		case assigned.Outcome == services.Deferred:
			result.Deferred++
		default:
			result.Batched++
		}
	}

	return result, nil
}
