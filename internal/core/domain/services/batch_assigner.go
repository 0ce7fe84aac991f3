package services

import (
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Outcome is the kind of placement decision made for an order.
type Outcome int

const (
	UnknownOutcome Outcome = iota
	JoinedBatch
	NewBatchCreated
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case JoinedBatch:
		return "JoinedBatch"
	case NewBatchCreated:
		return "NewBatchCreated"
	case Deferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// Decision is what BatchAssigner chose. Batch is the join target for JoinedBatch;
// SuggestedSlot is set for Deferred.
type Decision struct {
	Outcome       Outcome
	Batch         *batch.Batch
	SuggestedSlot kernel.Slot
}

// BatchAssigner decides which run an order belongs to. It never mutates anything;
// BatchLifecycle.Apply carries the decision out.
type BatchAssigner struct{}

func NewBatchAssigner() BatchAssigner {
	return BatchAssigner{}
}

// Decide evaluates, first match wins:
//
//  1. join a batch of the order's own zone with room
//  2. for a Primary zone only, join a batch with room owned by an adjacent Primary zone
//  3. open a new batch if an unreserved courier exists for the slot
//  4. defer to the next slot
//
// batches are considered in the order given, which callers keep as creation order.
// Neighbors are visited in id order.
func (BatchAssigner) Decide(
	o *order.Order,
	registry *ZoneRegistry,
	batches []*batch.Batch,
	unreservedCouriers int,
) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}
	zoneID, ok := o.ZoneID()
	if !ok || !registry.Contains(zoneID) {
		return Decision{}, ErrZoneUnresolved
	}
	slot := o.Slot()

	joinable := make([]*batch.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Slot() == slot && b.HasRoom() {
			joinable = append(joinable, b)
		}
	}

	for _, b := range joinable {
		if b.ZoneID() == zoneID {
			return Decision{Outcome: JoinedBatch, Batch: b}, nil
		}
	}

	if registry.IsPrimary(zoneID) {
		for _, n := range registry.Neighbors(zoneID) {
			if !registry.IsPrimary(n) {
				continue
			}
			for _, b := range joinable {
				if b.ZoneID() == n {
					return Decision{Outcome: JoinedBatch, Batch: b}, nil
				}
			}
		}
	}

	if unreservedCouriers > 0 {
		return Decision{Outcome: NewBatchCreated}, nil
	}

	return Decision{Outcome: Deferred, SuggestedSlot: slot.Next()}, nil
}
