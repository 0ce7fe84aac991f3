package services

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
)

// MinLeadTime is how far ahead of its start a slot must be to be offered.
const MinLeadTime = 15 * time.Minute

// SlotOffer is a slot a customer may pick. Advisory offers are shown only
// because an adjacent zone prefers the slot; they say nothing about whether the
// order will be pooled.
type SlotOffer struct {
	Slot     kernel.Slot
	Advisory bool
}

// SlotOffering filters candidate slots for display. It is separate from the
// authoritative capacity and assignment decisions.
type SlotOffering struct {
	minLeadTime time.Duration
}

func NewSlotOffering() SlotOffering {
	return SlotOffering{minLeadTime: MinLeadTime}
}

// Visible returns the slots of window that may be offered in zoneID at now, in
// service order.
//
// Slots starting less than MinLeadTime after now are dropped for every zone,
// with slot starts read in the window's location. A Secondary zone with
// preferred slots only sees those, widened by the slots its neighbors prefer;
// widened slots are marked Advisory.
func (s SlotOffering) Visible(
	zoneID zone.ID,
	registry *ZoneRegistry,
	window kernel.ServiceWindow,
	now time.Time,
) ([]SlotOffer, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	z, err := registry.Zone(zoneID)
	if err != nil {
		return nil, ErrZoneUnresolved
	}

	candidates := window.Slots()
	offers := make([]SlotOffer, 0, len(candidates))
	for _, slot := range candidates {
		if window.LeadTime(slot, now) < s.minLeadTime {
			continue
		}

		if !z.RestrictsOffering() || z.Prefers(slot) {
			offers = append(offers, SlotOffer{Slot: slot})
			continue
		}

		if s.preferredByNeighbor(zoneID, registry, slot) {
			offers = append(offers, SlotOffer{Slot: slot, Advisory: true})
		}
	}

	return offers, nil
}

func (SlotOffering) preferredByNeighbor(zoneID zone.ID, registry *ZoneRegistry, slot kernel.Slot) bool {
	for _, id := range registry.Neighbors(zoneID) {
		if n, err := registry.Zone(id); err == nil && n.Prefers(slot) {
			return true
		}
	}
	return false
}
