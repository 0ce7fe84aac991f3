package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root for a customer order inside the dispatch core.
//
// Invariants:
//   - id and slot are always valid
//   - zone is absent only for pickup orders
//   - a Batched order always references its batch; a Placed order never does
type Order struct {
	id      kernel.UUID
	zoneID  *zone.ID
	slot    kernel.Slot
	batchID *kernel.UUID
	status  Status
	guard   guard.ConstructorGuard
}

// NewOrder creates a Placed order. Pass a nil zoneID for a pickup order.
func NewOrder(id kernel.UUID, zoneID *zone.ID, slot kernel.Slot) (*Order, error) {
	return RestoreOrder(id, zoneID, slot, nil, Placed)
}

// RestoreOrder rebuilds an order from persisted state.
func RestoreOrder(
	id kernel.UUID,
	zoneID *zone.ID,
	slot kernel.Slot,
	batchID *kernel.UUID,
	status Status,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setZoneID(zoneID),
		o.setSlot(slot),
		o.setStatus(status, batchID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// ZoneID returns the resolved zone; ok is false for pickup orders.
func (o *Order) ZoneID() (zone.ID, bool) {
	if o.zoneID == nil {
		return "", false
	}
	return *o.zoneID, true
}

// IsDelivery reports whether the order resolved to a delivery zone.
func (o *Order) IsDelivery() bool {
	return o.zoneID != nil
}

func (o *Order) Slot() kernel.Slot {
	return o.slot
}

func (o *Order) Status() Status {
	return o.status
}

// Batch returns the batch the order belongs to, or nil.
func (o *Order) Batch() *kernel.UUID {
	if o.batchID == nil {
		return nil
	}
	id := *o.batchID
	return &id
}

func (o *Order) IsBatched() bool {
	return o.status == Batched
}

func (o *Order) IsDelivered() bool {
	return o.status == Delivered
}

// JoinBatch records membership in batchID.
func (o *Order) JoinBatch(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Join()
	if err != nil {
		return err
	}

	o.status = next
	o.batchID = &batchID
	return nil
}

// LeaveBatch clears the batch reference.
func (o *Order) LeaveBatch() error {
	next, err := o.status.Leave()
	if err != nil {
		return err
	}

	o.status = next
	o.batchID = nil
	return nil
}

func (o *Order) MarkDelivered() error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = next
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setZoneID(zoneID *zone.ID) error {
	if zoneID == nil {
		return nil
	}
	if err := zoneID.Validate(); err != nil {
		return err
	}
	id := *zoneID
	o.zoneID = &id
	return nil
}

func (o *Order) setSlot(slot kernel.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	o.slot = slot
	return nil
}

func (o *Order) setStatus(status Status, batchID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if batchID != nil {
		if err := batchID.Validate(); err != nil {
			return err
		}
	}
	if err := status.ValidateCanHaveBatch(batchID != nil); err != nil {
		return err
	}

	o.status = status
	if batchID != nil {
		id := *batchID
		o.batchID = &id
	}
	return nil
}
