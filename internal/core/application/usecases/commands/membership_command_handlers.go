package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

var (
	ErrOrderNotBatched    = errors.New("order is not in a batch")
	ErrBatchNotInProgress = errors.New("batch is not out for delivery")
)

// RemoveOrderFromBatchCommandHandler takes one order out of a batch that has not
// completed. The order reverts to unbatched and the batch keeps its state.
type RemoveOrderFromBatchCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	lifecycle  services.BatchLifecycle
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewRemoveOrderFromBatchCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RemoveOrderFromBatchCommandHandler {
	return RemoveOrderFromBatchCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lifecycle:  services.NewBatchLifecycle(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "RemoveOrderFromBatchCommandHandler"),
	}
}

func (h RemoveOrderFromBatchCommandHandler) Handle(ctx context.Context, cmd RemoveOrderFromBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	events, err := h.remove(ctx, cmd)
	if err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return nil
}

func (h RemoveOrderFromBatchCommandHandler) remove(ctx context.Context, cmd RemoveOrderFromBatchCommand) ([]ports.BatchEvent, error) {
	_, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, cmd.BatchID(), nil)
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
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.RemoveOrder(b, o); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	orderID := o.ID()
	return []ports.BatchEvent{batchEvent(ports.BatchOrderRemoved, b, &orderID)}, nil
}

// MarkOrderDeliveredCommandHandler records a delivery. Only members of a batch that
// is out for delivery can be delivered.
type MarkOrderDeliveredCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
}

func NewMarkOrderDeliveredCommandHandler(uowFactory UoWFactory, locker *SlotLocker) MarkOrderDeliveredCommandHandler {
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
	}
}

func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkOrderDeliveredCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	placed, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	batchID := placed.Batch()
	if batchID == nil {
		return ErrOrderNotBatched
	}

	_, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, *batchID, nil)
	if err != nil {
		return err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if current := o.Batch(); current == nil || *current != *batchID {
		return ErrBatchChanged
	}

	b, err := uow.BatchRepository().Get(ctx, *batchID)
	if err != nil {
		return err
	}
	if b.Status() != batch.InProgress {
		return fmt.Errorf("%w: batch %s is %s", ErrBatchNotInProgress, b.ID(), b.Status())
	}

	if err = o.MarkDelivered(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
