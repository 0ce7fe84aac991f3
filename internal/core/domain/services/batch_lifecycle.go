package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

var (
	ErrCourierUnavailable = errors.New("courier is not available")
	ErrUndeliveredOrders  = errors.New("batch has undelivered orders")
)

// BatchLifecycle owns every batch mutation. Engine decisions and operator
// overrides both go through it so the same checks apply to each.
type BatchLifecycle struct {
	availability CourierAvailability
}

func NewBatchLifecycle() BatchLifecycle {
	return BatchLifecycle{availability: NewCourierAvailability()}
}

// CreateBatch opens an empty Pending batch.
func (BatchLifecycle) CreateBatch(zoneID zone.ID, slot kernel.Slot) (*batch.Batch, error) {
	return batch.NewBatch(kernel.NewUUID(), zoneID, slot)
}

// AssignCourier attaches c to b. slotBatches must hold the current batches of b's
// slot; the single-run-per-slot rule is re-checked against them here.
func (l BatchLifecycle) AssignCourier(b *batch.Batch, c *courier.Courier, slotBatches []*batch.Batch) error {
	if err := errors.Join(b.Validate(), c.Validate()); err != nil {
		return err
	}
	if !b.IsActive() {
		return batch.ErrBatchCompleted
	}
	if b.HasCourier(c.ID()) {
		return nil
	}
	if !c.IsAvailable() {
		return fmt.Errorf("%w: %s is %s", ErrCourierUnavailable, c.ID(), c.Status())
	}

	others := make([]*batch.Batch, 0, len(slotBatches))
	for _, other := range slotBatches {
		if !other.IsEqual(b) {
			others = append(others, other)
		}
	}
	if !l.availability.IsFree(b.Slot(), c, others) {
		return batch.ErrCourierDoubleBooked
	}

	return b.AssignCourier(c.ID())
}

// AddOrder makes o a member of b.
func (BatchLifecycle) AddOrder(b *batch.Batch, o *order.Order) error {
	if err := errors.Join(b.Validate(), o.Validate()); err != nil {
		return err
	}
	if !o.IsDelivery() {
		return ErrZoneUnresolved
	}
	if o.Slot() != b.Slot() {
		return errs.NewValueIsInvalidErrorWithCause(
			"slot",
			fmt.Errorf("order %s is for %s, batch %s is for %s", o.ID(), o.Slot(), b.ID(), b.Slot()),
		)
	}

	if err := b.AddOrder(o.ID()); err != nil {
		return err
	}
	if err := o.JoinBatch(b.ID()); err != nil {
		_ = b.RemoveOrder(o.ID())
		return err
	}
	return nil
}

// RemoveOrder takes o out of b. The batch keeps its state.
func (BatchLifecycle) RemoveOrder(b *batch.Batch, o *order.Order) error {
	if err := errors.Join(b.Validate(), o.Validate()); err != nil {
		return err
	}
	if err := b.RemoveOrder(o.ID()); err != nil {
		return err
	}
	return o.LeaveBatch()
}

// DeleteBatch cancels b. Every member is released and an on-run courier is freed.
// The caller removes the batch from storage.
func (BatchLifecycle) DeleteBatch(b *batch.Batch, members []*order.Order, c *courier.Courier) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !b.IsActive() {
		return batch.ErrBatchCompleted
	}

	for _, o := range members {
		if !b.Contains(o.ID()) {
			return fmt.Errorf("%w: %s", batch.ErrOrderNotInBatch, o.ID())
		}
		if err := o.LeaveBatch(); err != nil {
			return err
		}
	}

	if c != nil && b.Status() == batch.InProgress && b.HasCourier(c.ID()) && c.Status() == courier.OnRun {
		return c.FinishRun()
	}
	return nil
}

// StartRun sends b out with its courier.
func (BatchLifecycle) StartRun(b *batch.Batch, c *courier.Courier) error {
	if err := errors.Join(b.Validate(), c.Validate()); err != nil {
		return err
	}
	if !b.HasCourier(c.ID()) {
		return fmt.Errorf("%w: %s is not assigned to batch %s", ErrCourierUnavailable, c.ID(), b.ID())
	}
	if !c.IsAvailable() {
		return fmt.Errorf("%w: %s is %s", ErrCourierUnavailable, c.ID(), c.Status())
	}

	if err := b.Start(); err != nil {
		return err
	}
	return c.StartRun()
}

// CompleteRun closes b once every member has been delivered and brings the
// courier back.
func (BatchLifecycle) CompleteRun(b *batch.Batch, members []*order.Order, c *courier.Courier) error {
	if err := b.Validate(); err != nil {
		return err
	}

	delivered := make(map[kernel.UUID]bool, len(members))
	for _, o := range members {
		delivered[o.ID()] = o.IsDelivered()
	}
	for _, id := range b.OrderIDs() {
		if !delivered[id] {
			return fmt.Errorf("%w: %s", ErrUndeliveredOrders, id)
		}
	}

	if err := b.Complete(); err != nil {
		return err
	}

	if c != nil && b.HasCourier(c.ID()) && c.Status() == courier.OnRun {
		return c.FinishRun()
	}
	return nil
}

// Apply carries out an assignment decision for o and returns the batch o joined,
// or nil when the order was deferred.
func (l BatchLifecycle) Apply(d Decision, o *order.Order) (*batch.Batch, error) {
	switch d.Outcome {
	case JoinedBatch:
		if err := l.AddOrder(d.Batch, o); err != nil {
			return nil, err
		}
		return d.Batch, nil
	case NewBatchCreated:
		zoneID, ok := o.ZoneID()
		if !ok {
			return nil, ErrZoneUnresolved
		}
		b, err := l.CreateBatch(zoneID, o.Slot())
		if err != nil {
			return nil, err
		}
		if err := l.AddOrder(b, o); err != nil {
			return nil, err
		}
		return b, nil
	case Deferred:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown outcome %d", d.Outcome)
	}
}
