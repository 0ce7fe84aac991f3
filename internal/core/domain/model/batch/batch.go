package batch

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MaxOrders is the membership ceiling of a batch: what one courier carries per run.
const MaxOrders = courier.CapacityPerRun

var (
	ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")

	ErrBatchFull           = errors.New("batch is full")
	ErrBatchCompleted      = errors.New("batch is completed")
	ErrBatchEmpty          = errors.New("batch has no orders")
	ErrOrderNotInBatch     = errors.New("order is not a member of the batch")
	ErrCourierDoubleBooked = errors.New("courier already holds a batch for this slot")
)

// Batch is the aggregate root for a single delivery run.
type Batch struct {
	id        kernel.UUID
	zoneID    zone.ID
	slot      kernel.Slot
	courierID *kernel.UUID
	orderIDs  []kernel.UUID
	status    Status
	guard     guard.ConstructorGuard
}

// NewBatch creates an empty, unassigned batch for zoneID and slot.
func NewBatch(id kernel.UUID, zoneID zone.ID, slot kernel.Slot) (*Batch, error) {
	b := &Batch{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setZoneID(zoneID),
		b.setSlot(slot),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBatch rebuilds a batch from persisted state, re-checking every invariant.
func RestoreBatch(
	id kernel.UUID,
	zoneID zone.ID,
	slot kernel.Slot,
	courierID *kernel.UUID,
	orderIDs []kernel.UUID,
	status Status,
) (*Batch, error) {
	b := &Batch{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setZoneID(zoneID),
		b.setSlot(slot),
		b.setStatus(status, courierID),
		b.setOrderIDs(orderIDs),
	); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Batch) Validate() error {
	if b == nil {
		return ErrBatchIsNotConstructed
	}
	return b.guard.Validate(ErrBatchIsNotConstructed)
}

func (b *Batch) IsEqual(other *Batch) bool {
	return other != nil && b.id.IsEqual(other.id)
}

func (b *Batch) ID() kernel.UUID {
	return b.id
}

func (b *Batch) ZoneID() zone.ID {
	return b.zoneID
}

func (b *Batch) Slot() kernel.Slot {
	return b.slot
}

// Courier returns the assigned courier, or nil while the batch is Pending.
func (b *Batch) Courier() *kernel.UUID {
	if b.courierID == nil {
		return nil
	}
	id := *b.courierID
	return &id
}

// HasCourier reports whether courierID is the courier attached to this batch.
func (b *Batch) HasCourier(courierID kernel.UUID) bool {
	return b.courierID != nil && b.courierID.IsEqual(courierID)
}

// OrderIDs returns the member orders in join order.
func (b *Batch) OrderIDs() []kernel.UUID {
	return slices.Clone(b.orderIDs)
}

func (b *Batch) Len() int {
	return len(b.orderIDs)
}

func (b *Batch) IsEmpty() bool {
	return len(b.orderIDs) == 0
}

func (b *Batch) Status() Status {
	return b.status
}

// IsActive is false only for Completed batches.
func (b *Batch) IsActive() bool {
	return b.status != Completed
}

func (b *Batch) IsFull() bool {
	return len(b.orderIDs) >= MaxOrders
}

// HasRoom reports whether the batch can accept another order right now.
func (b *Batch) HasRoom() bool {
	return b.IsActive() && !b.IsFull()
}

func (b *Batch) Contains(orderID kernel.UUID) bool {
	return slices.Contains(b.orderIDs, orderID)
}

// AddOrder appends orderID to the membership.
func (b *Batch) AddOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !b.IsActive() {
		return ErrBatchCompleted
	}
	if b.IsFull() {
		return ErrBatchFull
	}
	if b.Contains(orderID) {
		return errs.NewValueIsInvalidErrorWithCause(
			"order id",
			fmt.Errorf("order %s is already in batch %s", orderID, b.id),
		)
	}

	b.orderIDs = append(b.orderIDs, orderID)
	return nil
}

// RemoveOrder drops orderID from the membership. The batch state is unchanged.
func (b *Batch) RemoveOrder(orderID kernel.UUID) error {
	if !b.IsActive() {
		return ErrBatchCompleted
	}

	i := slices.Index(b.orderIDs, orderID)
	if i < 0 {
		return ErrOrderNotInBatch
	}

	b.orderIDs = slices.Delete(b.orderIDs, i, i+1)
	return nil
}

// AssignCourier attaches courierID. Whether the courier is free for the slot is
// decided by the caller, which can see the other batches.
func (b *Batch) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	next, err := b.status.Assign()
	if err != nil {
		return err
	}

	b.status = next
	b.courierID = &courierID
	return nil
}

// Start sends the batch out for delivery.
func (b *Batch) Start() error {
	if b.IsEmpty() {
		return ErrBatchEmpty
	}

	next, err := b.status.Start()
	if err != nil {
		return err
	}

	b.status = next
	return nil
}

// Complete closes the run. The caller verifies that every member was delivered.
func (b *Batch) Complete() error {
	next, err := b.status.Complete()
	if err != nil {
		return err
	}

	b.status = next
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setZoneID(zoneID zone.ID) error {
	if err := zoneID.Validate(); err != nil {
		return err
	}
	b.zoneID = zoneID
	return nil
}

func (b *Batch) setSlot(slot kernel.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	b.slot = slot
	return nil
}

func (b *Batch) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	b.status = status
	if courierID != nil {
		id := *courierID
		b.courierID = &id
	}
	return nil
}

func (b *Batch) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) > MaxOrders {
		return errs.NewValueIsOutOfRangeError("batch size", len(orderIDs), 0, MaxOrders)
	}

	b.orderIDs = make([]kernel.UUID, 0, MaxOrders)
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if slices.Contains(b.orderIDs, id) {
			return errs.NewValueIsInvalidErrorWithCause("order ids", fmt.Errorf("order %s appears twice", id))
		}
		b.orderIDs = append(b.orderIDs, id)
	}
	return nil
}
