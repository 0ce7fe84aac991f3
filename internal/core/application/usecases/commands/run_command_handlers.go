package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

var ErrBatchHasNoCourier = errors.New("batch has no courier")

// StartBatchCommandHandler moves a batch to InProgress and its courier to OnRun.
type StartBatchCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	lifecycle  services.BatchLifecycle
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewStartBatchCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) StartBatchCommandHandler {
	return StartBatchCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lifecycle:  services.NewBatchLifecycle(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "StartBatchCommandHandler"),
	}
}

func (h StartBatchCommandHandler) Handle(ctx context.Context, cmd StartBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	events, err := h.start(ctx, cmd)
	if err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return nil
}

func (h StartBatchCommandHandler) start(ctx context.Context, cmd StartBatchCommand) ([]ports.BatchEvent, error) {
	seen, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, cmd.BatchID(), courierKeys)
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
	if !sameCourier(seen, b) {
		return nil, ErrBatchChanged
	}
	courierID := b.Courier()
	if courierID == nil {
		return nil, ErrBatchHasNoCourier
	}

	c, err := uow.CourierRepository().Get(ctx, *courierID)
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.StartRun(b, c); err != nil {
		return nil, err
	}
	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return nil, err
	}
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return []ports.BatchEvent{batchEvent(ports.BatchStarted, b, nil)}, nil
}

// CompleteBatchCommandHandler closes a run once every member order is Delivered
// and brings the courier back to Available.
type CompleteBatchCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	lifecycle  services.BatchLifecycle
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCompleteBatchCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompleteBatchCommandHandler {
	return CompleteBatchCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lifecycle:  services.NewBatchLifecycle(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "CompleteBatchCommandHandler"),
	}
}

func (h CompleteBatchCommandHandler) Handle(ctx context.Context, cmd CompleteBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	events, err := h.complete(ctx, cmd)
	if err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return nil
}

func (h CompleteBatchCommandHandler) complete(ctx context.Context, cmd CompleteBatchCommand) ([]ports.BatchEvent, error) {
	seen, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, cmd.BatchID(), courierKeys)
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
	if !sameCourier(seen, b) {
		return nil, ErrBatchChanged
	}

	members, err := uow.OrderRepository().GetByBatch(ctx, b.ID())
	if err != nil {
		return nil, err
	}

	courierRepo := uow.CourierRepository()
	courierID := b.Courier()
	if courierID == nil {
		// Pending batches have nobody to bring back; Complete rejects them below.
		if err = h.lifecycle.CompleteRun(b, members, nil); err != nil {
			return nil, err
		}
	} else {
		c, getErr := courierRepo.Get(ctx, *courierID)
		if getErr != nil {
			return nil, getErr
		}
		if err = h.lifecycle.CompleteRun(b, members, c); err != nil {
			return nil, err
		}
		if err = courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	if err = uow.BatchRepository().Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return []ports.BatchEvent{batchEvent(ports.BatchCompleted, b, nil)}, nil
}

// DeleteBatchCommandHandler cancels a batch that has not completed. Members revert
// to unbatched so the rebatch job can place them again; an on-run courier is freed.
type DeleteBatchCommandHandler struct {
	uowFactory UoWFactory
	locker     *SlotLocker
	lifecycle  services.BatchLifecycle
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewDeleteBatchCommandHandler(
	uowFactory UoWFactory,
	locker *SlotLocker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) DeleteBatchCommandHandler {
	return DeleteBatchCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lifecycle:  services.NewBatchLifecycle(),
		publisher:  publisher,
		logger:     orNop(logger).With("component", "DeleteBatchCommandHandler"),
	}
}

func (h DeleteBatchCommandHandler) Handle(ctx context.Context, cmd DeleteBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	events, err := h.cancel(ctx, cmd)
	if err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events...)
	return nil
}

func (h DeleteBatchCommandHandler) cancel(ctx context.Context, cmd DeleteBatchCommand) ([]ports.BatchEvent, error) {
	seen, unlock, err := lockBatch(ctx, h.uowFactory, h.locker, cmd.BatchID(), courierKeys)
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
	if !sameCourier(seen, b) {
		return nil, ErrBatchChanged
	}
	// Snapshot before members are released, so the event names who was in it.
	deleted := batchEvent(ports.BatchDeleted, b, nil)

	members, err := uow.OrderRepository().GetByBatch(ctx, b.ID())
	if err != nil {
		return nil, err
	}

	courierRepo := uow.CourierRepository()
	courierID := b.Courier()
	freesCourier := courierID != nil && b.Status() == batch.InProgress
	if freesCourier {
		c, getErr := courierRepo.Get(ctx, *courierID)
		if getErr != nil {
			return nil, getErr
		}
		if err = h.lifecycle.DeleteBatch(b, members, c); err != nil {
			return nil, err
		}
		if err = courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	} else if err = h.lifecycle.DeleteBatch(b, members, nil); err != nil {
		return nil, err
	}

	for _, o := range members {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
	}
	if err = uow.BatchRepository().Delete(ctx, b.ID()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return []ports.BatchEvent{deleted}, nil
}
