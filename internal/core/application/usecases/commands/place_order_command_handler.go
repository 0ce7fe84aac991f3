package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// PlaceOrderResult is the admission verdict plus, for an admitted order, where it went.
// Capacity is the snapshot the verdict was based on; when Admitted is false its
// Reason carries the message for the customer and nothing was stored.
type PlaceOrderResult struct {
	AssignmentResult

	Admitted bool
	Capacity services.Capacity
}

// PlaceOrderCommandHandler runs zone resolution, the capacity admission check, the
// assignment decision and the batch mutation for a new order in one transaction.
//
// The whole area of the order's zone is locked for the slot, because the capacity
// check counts the neighbors' orders and an adjacent join writes a neighbor's batch.
// Orders in slots or areas that do not overlap proceed in parallel.
//
// A deferred order is not stored: the caller offers SuggestedSlot to the customer
// and places the order again if it is accepted.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	calculator services.SlotCapacityCalculator
	assignment assignment
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewPlaceOrderCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	calculator services.SlotCapacityCalculator,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		calculator: calculator,
		assignment: newAssignment(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "PlaceOrderCommandHandler"),
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	result, events, err := h.place(ctx, cmd)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return result, nil
}

func (h PlaceOrderCommandHandler) place(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, []ports.BatchEvent, error) {
	zoneID, ok := cmd.ZoneID()
	if !ok {
		return PlaceOrderResult{}, nil, services.ErrZoneUnresolved
	}

	registry, err := loadRegistry(ctx, h.uowFactory.Create())
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}
	if !registry.Contains(zoneID) {
		return PlaceOrderResult{}, nil, services.ErrZoneUnresolved
	}

	slot := cmd.Slot()
	unlock := h.locker.Lock(AreaKeys(slot, registry.Area(zoneID))...)
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := order.NewOrder(cmd.OrderID(), &zoneID, slot)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}

	batches, err := uow.BatchRepository().GetActiveBySlot(ctx, slot)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}
	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}
	orders, err := uow.OrderRepository().GetBySlot(ctx, slot)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}

	capacity, err := h.calculator.Calculate(zoneID, slot, registry, couriers, batches, orders)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}
	if !capacity.Available {
		h.logger.InfoContext(ctx, "order rejected",
			"order_id", o.ID().String(),
			"zone_id", zoneID,
			"slot", slot.String(),
			"reason", capacity.Reason,
		)
		return PlaceOrderResult{
			AssignmentResult: AssignmentResult{OrderID: o.ID()},
			Capacity:         capacity,
		}, nil, nil
	}

	assigned, events, err := h.assignment.run(ctx, uow, registry, o, batches, couriers, uow.OrderRepository().Add)
	if err != nil {
		return PlaceOrderResult{}, nil, err
	}

	result := PlaceOrderResult{AssignmentResult: assigned, Admitted: true, Capacity: capacity}
	if assigned.Outcome == services.Deferred {
		return result, nil, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, nil, err
	}

	return result, events, nil
}
