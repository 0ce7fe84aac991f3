package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetSlotOffersQueryIsNotConstructed = errors.New(
	"GetSlotOffersQuery must be created via NewGetSlotOffersQuery constructor",
)

// GetSlotOffersQuery lists the slots a customer in zoneID may pick at the given time.
type GetSlotOffersQuery struct {
	zoneID zone.ID
	at     time.Time

	guard guard.ConstructorGuard
}

func NewGetSlotOffersQuery(zoneID zone.ID, at time.Time) (GetSlotOffersQuery, error) {
	if err := zoneID.Validate(); err != nil {
		return GetSlotOffersQuery{}, err
	}
	if at.IsZero() {
		return GetSlotOffersQuery{}, errs.NewValueIsRequiredError("at")
	}
	return GetSlotOffersQuery{zoneID: zoneID, at: at, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSlotOffersQuery) Validate() error {
	return q.guard.Validate(ErrGetSlotOffersQueryIsNotConstructed)
}

func (q GetSlotOffersQuery) ZoneID() zone.ID {
	return q.zoneID
}

func (q GetSlotOffersQuery) At() time.Time {
	return q.at
}

// SlotOfferResponse is one offered slot with its capacity at query time.
// Advisory offers come from a neighbor's preference, not the zone's own.
type SlotOfferResponse struct {
	Slot     kernel.Slot
	Advisory bool
	Capacity services.Capacity
}

// GetSlotOffersQueryHandler walks the service window, filters it through
// SlotOffering and attaches a capacity snapshot to every slot that survives.
// Full slots are returned too, with Capacity.Available false and a Reason.
type GetSlotOffersQueryHandler struct {
	repos      RepositoriesFactory
	calculator services.SlotCapacityCalculator
	offering   services.SlotOffering
	window     kernel.ServiceWindow
}

func NewGetSlotOffersQueryHandler(
	repos RepositoriesFactory,
	calculator services.SlotCapacityCalculator,
	window kernel.ServiceWindow,
) GetSlotOffersQueryHandler {
	return GetSlotOffersQueryHandler{
		repos:      repos,
		calculator: calculator,
		offering:   services.NewSlotOffering(),
		window:     window,
	}
}

func (h GetSlotOffersQueryHandler) Handle(ctx context.Context, query GetSlotOffersQuery) ([]SlotOfferResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repos := h.repos.Create()
	registry, err := loadRegistry(ctx, repos)
	if err != nil {
		return nil, err
	}

	visible, err := h.offering.Visible(query.ZoneID(), registry, h.window, query.At())
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return []SlotOfferResponse{}, nil
	}

	couriers, err := repos.CourierRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	offers := make([]SlotOfferResponse, 0, len(visible))
	for _, v := range visible {
		snapshot, readErr := readSlotWith(ctx, repos, v.Slot, couriers)
		if readErr != nil {
			return nil, readErr
		}
		capacity, capErr := snapshot.capacity(h.calculator, registry, query.ZoneID())
		if capErr != nil {
			return nil, capErr
		}
		offers = append(offers, SlotOfferResponse{Slot: v.Slot, Advisory: v.Advisory, Capacity: capacity})
	}

	return offers, nil
}
