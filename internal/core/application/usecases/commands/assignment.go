package commands

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignmentResult reports where an order went. BatchID is set for JoinedBatch and
// NewBatchCreated, SuggestedSlot for Deferred.
type AssignmentResult struct {
	OrderID       kernel.UUID
	Outcome       services.Outcome
	BatchID       *kernel.UUID
	SuggestedSlot *kernel.Slot
}

// assignment runs the decide-then-apply pipeline shared by order placement and
// re-assignment. The caller holds the area locks and an open unit of work.
type assignment struct {
	assigner     services.BatchAssigner
	lifecycle    services.BatchLifecycle
	availability services.CourierAvailability
}

func newAssignment() assignment {
	return assignment{
		assigner:     services.NewBatchAssigner(),
		lifecycle:    services.NewBatchLifecycle(),
		availability: services.NewCourierAvailability(),
	}
}

// run decides for o and stages the resulting writes. saveOrder persists o, which
// is Add for a new order and Update for an existing one. Nothing is written for a
// deferred order.
func (a assignment) run(
	ctx context.Context,
	uow UoW,
	registry *services.ZoneRegistry,
	o *order.Order,
	batches []*batch.Batch,
	couriers []*courier.Courier,
	saveOrder func(context.Context, *order.Order) error,
) (AssignmentResult, []ports.BatchEvent, error) {
	result := AssignmentResult{OrderID: o.ID()}

	unreserved := a.availability.Unreserved(o.Slot(), couriers, batches)
	decision, err := a.assigner.Decide(o, registry, batches, unreserved)
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	result.Outcome = decision.Outcome

	if decision.Outcome == services.Deferred {
		suggested := decision.SuggestedSlot
		result.SuggestedSlot = &suggested
		return result, nil, nil
	}

	b, err := a.lifecycle.Apply(decision, o)
	if err != nil {
		return AssignmentResult{}, nil, err
	}
	batchID := b.ID()
	result.BatchID = &batchID

	if err = saveOrder(ctx, o); err != nil {
		return AssignmentResult{}, nil, err
	}

	orderID := o.ID()
	var events []ports.BatchEvent
	if decision.Outcome == services.NewBatchCreated {
		if err = uow.BatchRepository().Add(ctx, b); err != nil {
			return AssignmentResult{}, nil, err
		}
		events = append(events, batchEvent(ports.BatchCreated, b, nil))
	} else if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return AssignmentResult{}, nil, err
	}
	events = append(events, batchEvent(ports.BatchOrderAdded, b, &orderID))

	return result, events, nil
}
