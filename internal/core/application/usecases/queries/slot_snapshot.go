package queries

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
)

// slotSnapshot is the committed state capacity is derived from for one slot.
type slotSnapshot struct {
	slot     kernel.Slot
	couriers []*courier.Courier
	batches  []*batch.Batch
	orders   []*order.Order
}

func readSlot(ctx context.Context, repos Repositories, slot kernel.Slot) (slotSnapshot, error) {
	couriers, err := repos.CourierRepository().GetAll(ctx)
	if err != nil {
		return slotSnapshot{}, err
	}
	return readSlotWith(ctx, repos, slot, couriers)
}

func readSlotWith(ctx context.Context, repos Repositories, slot kernel.Slot, couriers []*courier.Courier) (slotSnapshot, error) {
	batches, err := repos.BatchRepository().GetActiveBySlot(ctx, slot)
	if err != nil {
		return slotSnapshot{}, err
	}
	orders, err := repos.OrderRepository().GetBySlot(ctx, slot)
	if err != nil {
		return slotSnapshot{}, err
	}
	return slotSnapshot{slot: slot, couriers: couriers, batches: batches, orders: orders}, nil
}

func (s slotSnapshot) capacity(
	calculator services.SlotCapacityCalculator,
	registry *services.ZoneRegistry,
	zoneID zone.ID,
) (services.Capacity, error) {
	return calculator.Calculate(zoneID, s.slot, registry, s.couriers, s.batches, s.orders)
}
