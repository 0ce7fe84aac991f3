package services

import (
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierAvailability derives per-slot courier availability from the current
// couriers and batches. Nothing is cached.
type CourierAvailability struct{}

func NewCourierAvailability() CourierAvailability {
	return CourierAvailability{}
}

// FreeCouriers returns the Available couriers that hold no active batch in slot,
// preserving the input order.
func (CourierAvailability) FreeCouriers(
	slot kernel.Slot,
	couriers []*courier.Courier,
	batches []*batch.Batch,
) []*courier.Courier {
	booked := bookedCouriers(slot, batches)

	free := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if !c.IsAvailable() {
			continue
		}
		if _, ok := booked[c.ID()]; ok {
			continue
		}
		free = append(free, c)
	}
	return free
}

// IsFree reports whether c could be attached to a batch in slot.
func (a CourierAvailability) IsFree(slot kernel.Slot, c *courier.Courier, batches []*batch.Batch) bool {
	return len(a.FreeCouriers(slot, []*courier.Courier{c}, batches)) == 1
}

// Unreserved is the number of free couriers in slot not yet spoken for by an
// unassigned batch. A new batch may only be opened while it is positive.
func (a CourierAvailability) Unreserved(
	slot kernel.Slot,
	couriers []*courier.Courier,
	batches []*batch.Batch,
) int {
	pending := 0
	for _, b := range batches {
		if b.Slot() == slot && b.Status() == batch.Pending {
			pending++
		}
	}
	return max(len(a.FreeCouriers(slot, couriers, batches))-pending, 0)
}

func bookedCouriers(slot kernel.Slot, batches []*batch.Batch) map[kernel.UUID]struct{} {
	booked := make(map[kernel.UUID]struct{})
	for _, b := range batches {
		if !b.IsActive() || b.Slot() != slot {
			continue
		}
		if id := b.Courier(); id != nil {
			booked[*id] = struct{}{}
		}
	}
	return booked
}
