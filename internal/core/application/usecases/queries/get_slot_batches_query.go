package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/guard"
)

var ErrGetSlotBatchesQueryIsNotConstructed = errors.New(
	"GetSlotBatchesQuery must be created via NewGetSlotBatchesQuery constructor",
)

// GetSlotBatchesQuery lists every batch of a slot, completed runs included.
type GetSlotBatchesQuery struct {
	slot kernel.Slot

	guard guard.ConstructorGuard
}

func NewGetSlotBatchesQuery(slot kernel.Slot) (GetSlotBatchesQuery, error) {
	if err := slot.Validate(); err != nil {
		return GetSlotBatchesQuery{}, err
	}
	return GetSlotBatchesQuery{slot: slot, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSlotBatchesQuery) Validate() error {
	return q.guard.Validate(ErrGetSlotBatchesQueryIsNotConstructed)
}

func (q GetSlotBatchesQuery) Slot() kernel.Slot {
	return q.slot
}

type GetSlotBatchesQueryResponse struct {
	ID        kernel.UUID
	ZoneID    zone.ID
	Slot      kernel.Slot
	Status    string
	CourierID *kernel.UUID
	OrderIDs  []kernel.UUID
}

type GetSlotBatchesQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetSlotBatchesQueryHandler(repos RepositoriesFactory) GetSlotBatchesQueryHandler {
	return GetSlotBatchesQueryHandler{repos: repos}
}

// Handle returns the batches in creation order.
func (h GetSlotBatchesQueryHandler) Handle(
	ctx context.Context,
	query GetSlotBatchesQuery,
) ([]GetSlotBatchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.repos.Create().BatchRepository().GetBySlot(ctx, query.Slot())
	if err != nil {
		return nil, err
	}

	batches := make([]GetSlotBatchesQueryResponse, 0, len(all))
	for _, b := range all {
		batches = append(batches, GetSlotBatchesQueryResponse{
			ID:        b.ID(),
			ZoneID:    b.ZoneID(),
			Slot:      b.Slot(),
			Status:    b.Status().String(),
			CourierID: b.Courier(),
			OrderIDs:  b.OrderIDs(),
		})
	}

	return batches, nil
}
