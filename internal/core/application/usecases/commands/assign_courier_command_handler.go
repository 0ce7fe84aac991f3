package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignCourierCommandHandler attaches a courier to a batch and moves it to Assigned.
// An Assigned batch may be handed to another courier until its run starts.
//
// The slot's courier pool key is held while the slot's batches are re-read, so the
// single-run-per-slot rule is checked against the state being committed. Storage
// enforces the same rule, which covers other processes; its violation surfaces as
// batch.ErrCourierDoubleBooked as well.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, locker, publisher, logger)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, batch.ErrCourierDoubleBooked):
//	    log.Println("Courier already runs a batch in this slot")
//	case errors.Is(err, services.ErrCourierUnavailable):
//	    log.Println("Courier is off shift or out on a run")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	lifecycle  services.BatchLifecycle
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lifecycle:  services.NewBatchLifecycle(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "AssignCourierCommandHandler"),
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	events, err := h.assign(ctx, cmd)
	if err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return nil
}

func (h AssignCourierCommandHandler) assign(ctx context.Context, cmd AssignCourierCommand) ([]ports.BatchEvent, error) {
	_, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, cmd.BatchID(), func(b *batch.Batch) []string {
		return []string{CourierPoolKey(b.Slot())}
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.BatchRepository().Get(ctx, cmd.BatchID())
	if err != nil {
		return nil, err
	}
	if b.HasCourier(cmd.CourierID()) {
		return nil, nil
	}

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	slotBatches, err := uow.BatchRepository().GetActiveBySlot(ctx, b.Slot())
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.AssignCourier(b, c, slotBatches); err != nil {
		return nil, err
	}
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return []ports.BatchEvent{batchEvent(ports.BatchCourierAssigned, b, nil)}, nil
}
