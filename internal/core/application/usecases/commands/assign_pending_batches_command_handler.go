package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignPendingBatchesResult counts the outcome per pending batch.
type AssignPendingBatchesResult struct {
	Assigned int
	Waiting  int
	Failed   int
}

// AssignPendingBatchesCommandHandler walks the Pending batches oldest first and
// attaches the first free courier of the slot to each. A batch with no free courier
// keeps waiting. Every batch is handled in its own transaction.
type AssignPendingBatchesCommandHandler struct {
	uowFactory   UoWFactory
	locker       *SlotLocker
	lifecycle    services.BatchLifecycle
	availability services.CourierAvailability
	publisher    ports.EventPublisher
	logger       *slog.Logger
}

func NewAssignPendingBatchesCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignPendingBatchesCommandHandler {
	return AssignPendingBatchesCommandHandler{
		uowFactory:   uowFactory,
		locker:       locker,
		lifecycle:    services.NewBatchLifecycle(),
		availability: services.NewCourierAvailability(),
		publisher:    publisher,
		logger:       orNop(logger).With("component", "AssignPendingBatchesCommandHandler"),
	}
}

func (h AssignPendingBatchesCommandHandler) Handle(
	ctx context.Context,
	cmd AssignPendingBatchesCommand,
) (AssignPendingBatchesResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignPendingBatchesResult{}, err
	}

	pending, err := h.uowFactory.Create().BatchRepository().GetAllPending(ctx)
	if err != nil {
		return AssignPendingBatchesResult{}, err
	}

	var result AssignPendingBatchesResult
	for _, b := range pending {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		assigned, events, assignErr := h.assignOne(ctx, b)
		switch {
		case assignErr != nil:
			result.Failed++
			h.logger.WarnContext(ctx, "failed to assign courier", "batch_id", b.ID().String(), "error", assignErr)
		case assigned:
			result.Assigned++
			publish(ctx, h.publisher, h.logger, events...)
		default:
			result.Waiting++
		}
	}

	return result, nil
}

func (h AssignPendingBatchesCommandHandler) assignOne(ctx context.Context, pending *batch.Batch) (bool, []ports.BatchEvent, error) {
	unlock := h.locker.Lock(ZoneKey(pending.Slot(), pending.ZoneID()), CourierPoolKey(pending.Slot()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.BatchRepository().Get(ctx, pending.ID())
	if err != nil {
		return false, nil, err
	}
	if b.Status() != batch.Pending {
		return false, nil, nil
	}

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return false, nil, err
	}
	slotBatches, err := uow.BatchRepository().GetActiveBySlot(ctx, b.Slot())
	if err != nil {
		return false, nil, err
	}

	free := h.availability.FreeCouriers(b.Slot(), couriers, slotBatches)
	if len(free) == 0 {
		return false, nil, nil
	}

	if err = h.lifecycle.AssignCourier(b, free[0], slotBatches); err != nil {
		return false, nil, err
	}
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return false, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, nil, err
	}

	return true, []ports.BatchEvent{batchEvent(ports.BatchCourierAssigned, b, nil)}, nil
}
