package services

import (
	"slices"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
)

// ReasonCapacityExhausted is shown to customers when a slot is full for their area.
const ReasonCapacityExhausted = "all couriers for this delivery area are fully booked in the selected slot"

// Capacity is a point-in-time view of how many more orders a zone can take in a slot.
type Capacity struct {
	ZoneID    zone.ID
	Slot      kernel.Slot
	Total     int
	Used      int
	Remaining int
	Available bool
	Reason    string
}

// SlotCapacityCalculator computes Capacity. It is a pure read and safe to call
// speculatively, for example once per candidate slot while a customer browses.
type SlotCapacityCalculator struct {
	availability CourierAvailability
	ovenCeiling  int
}

// NewSlotCapacityCalculator returns a calculator. A positive ovenCeiling caps the
// courier-derived total; zero disables the cap.
func NewSlotCapacityCalculator(ovenCeiling int) SlotCapacityCalculator {
	return SlotCapacityCalculator{
		availability: NewCourierAvailability(),
		ovenCeiling:  max(ovenCeiling, 0),
	}
}

// Calculate returns the capacity of zoneID in slot.
//
// The area is zoneID plus its neighbors. Total is CapacityPerRun for every free
// courier plus every courier already attached to an active batch of the area in
// slot, so attaching a courier does not shrink capacity under the orders it carries.
// Used counts the area's orders in slot whether or not they are batched; delivered
// orders no longer count. Remaining never goes below zero.
func (c SlotCapacityCalculator) Calculate(
	zoneID zone.ID,
	slot kernel.Slot,
	registry *ZoneRegistry,
	couriers []*courier.Courier,
	batches []*batch.Batch,
	orders []*order.Order,
) (Capacity, error) {
	if !registry.Contains(zoneID) {
		return Capacity{}, ErrZoneUnresolved
	}
	if err := slot.Validate(); err != nil {
		return Capacity{}, err
	}

	area := registry.Area(zoneID)

	carriers := len(c.availability.FreeCouriers(slot, couriers, batches))
	for _, b := range batches {
		if b.IsActive() && b.Slot() == slot && b.Courier() != nil && slices.Contains(area, b.ZoneID()) {
			carriers++
		}
	}

	total := carriers * courier.CapacityPerRun
	if c.ovenCeiling > 0 {
		total = min(total, c.ovenCeiling)
	}

	used := 0
	for _, o := range orders {
		id, ok := o.ZoneID()
		if !ok || o.IsDelivered() || o.Slot() != slot {
			continue
		}
		if slices.Contains(area, id) {
			used++
		}
	}

	capacity := Capacity{
		ZoneID:    zoneID,
		Slot:      slot,
		Total:     total,
		Used:      used,
		Remaining: max(total-used, 0),
	}
	capacity.Available = capacity.Remaining > 0
	if !capacity.Available {
		capacity.Reason = ReasonCapacityExhausted
	}

	return capacity, nil
}
