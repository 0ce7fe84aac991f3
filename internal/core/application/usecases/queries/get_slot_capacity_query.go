package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/guard"
)

var ErrGetSlotCapacityQueryIsNotConstructed = errors.New(
	"GetSlotCapacityQuery must be created via NewGetSlotCapacityQuery constructor",
)

// GetSlotCapacityQuery asks how many more orders zoneID can take in slot.
type GetSlotCapacityQuery struct {
	zoneID zone.ID
	slot   kernel.Slot

	guard guard.ConstructorGuard
}

func NewGetSlotCapacityQuery(zoneID zone.ID, slot kernel.Slot) (GetSlotCapacityQuery, error) {
	if err := errors.Join(zoneID.Validate(), slot.Validate()); err != nil {
		return GetSlotCapacityQuery{}, err
	}
	return GetSlotCapacityQuery{zoneID: zoneID, slot: slot, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSlotCapacityQuery) Validate() error {
	return q.guard.Validate(ErrGetSlotCapacityQueryIsNotConstructed)
}

func (q GetSlotCapacityQuery) ZoneID() zone.ID {
	return q.zoneID
}

func (q GetSlotCapacityQuery) Slot() kernel.Slot {
	return q.slot
}

// GetSlotCapacityQueryHandler computes a capacity snapshot from committed state.
// The snapshot is advisory; PlaceOrder repeats the check under the slot lock.
type GetSlotCapacityQueryHandler struct {
	repos      RepositoriesFactory
	calculator services.SlotCapacityCalculator
}

func NewGetSlotCapacityQueryHandler(
	repos RepositoriesFactory,
	calculator services.SlotCapacityCalculator,
) GetSlotCapacityQueryHandler {
	return GetSlotCapacityQueryHandler{repos: repos, calculator: calculator}
}

func (h GetSlotCapacityQueryHandler) Handle(ctx context.Context, query GetSlotCapacityQuery) (services.Capacity, error) {
	if err := query.Validate(); err != nil {
		return services.Capacity{}, err
	}

	repos := h.repos.Create()
	registry, err := loadRegistry(ctx, repos)
	if err != nil {
		return services.Capacity{}, err
	}

	snapshot, err := readSlot(ctx, repos, query.Slot())
	if err != nil {
		return services.Capacity{}, err
	}

	return snapshot.capacity(h.calculator, registry, query.ZoneID())
}
