package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

var ErrOrderAlreadyBatched = errors.New("order is already batched or delivered")

// AssignOrderCommandHandler places a stored, unbatched order into a run. There is no
// admission check: the order already consumes capacity since it was placed. A
// deferred order stays unbatched and can be retried later.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	assignment assignment
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAssignOrderCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		assignment: newAssignment(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "AssignOrderCommandHandler"),
	}
}

func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	result, events, err := h.assign(ctx, cmd)
	if err != nil {
		return AssignmentResult{}, err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return result, nil
}

func (h AssignOrderCommandHandler) assign(ctx context.Context, cmd AssignOrderCommand) (AssignmentResult, []ports.BatchEvent, error) {
	lookup := h.uowFactory.Create()
	placed, err := lookup.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	zoneID, ok := placed.ZoneID()
	if !ok {
		return AssignmentResult{}, nil, services.ErrZoneUnresolved
	}

	registry, err := loadRegistry(ctx, lookup)
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	if !registry.Contains(zoneID) {
		return AssignmentResult{}, nil, services.ErrZoneUnresolved
	}

	slot := placed.Slot()
	unlock := h.locker.Lock(AreaKeys(slot, registry.Area(zoneID))...)
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return AssignmentResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	if o.IsBatched() || o.IsDelivered() {
		return AssignmentResult{}, nil, ErrOrderAlreadyBatched
	}

	batches, err := uow.BatchRepository().GetActiveBySlot(ctx, slot)
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return AssignmentResult{}, nil, err
	}

	result, events, err := h.assignment.run(ctx, uow, registry, o, batches, couriers, uow.OrderRepository().Update)
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	if result.Outcome == services.Deferred {
		return result, nil, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, nil, err
	}

	return result, events, nil
}
