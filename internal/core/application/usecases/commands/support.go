package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// loadRegistry builds the zone registry from the territory table visible to uow.
func loadRegistry(ctx context.Context, repos ZoneRepoFactory) (*services.ZoneRegistry, error) {
	zones, err := repos.ZoneRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewZoneRegistry(zones)
}

func batchEvent(t ports.BatchEventType, b *batch.Batch, orderID *kernel.UUID) ports.BatchEvent {
	event := ports.BatchEvent{
		Type:       t,
		BatchID:    b.ID().String(),
		ZoneID:     b.ZoneID().String(),
		Slot:       b.Slot().String(),
		Status:     b.Status().String(),
		OrderIDs:   make([]string, 0, b.Len()),
		OccurredAt: time.Now().UTC(),
	}
	if c := b.Courier(); c != nil {
		event.CourierID = c.String()
	}
	if orderID != nil {
		event.OrderID = orderID.String()
	}
	for _, id := range b.OrderIDs() {
		event.OrderIDs = append(event.OrderIDs, id.String())
	}
	return event
}

// publish delivers events of a committed unit of work. The state change already
// happened, so a failure is logged and not returned.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, events ...ports.BatchEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish batch events",
			"count", len(events),
			"type", events[0].Type,
			"batch_id", events[0].BatchID,
			"error", err,
		)
	}
}

func orNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// ErrBatchChanged means the batch got a different courier between the lookup that
// chose the locks and the transaction. The command can simply be retried.
var ErrBatchChanged = errors.New("batch changed concurrently")

// lockBatch reads the batch outside any transaction to learn which keys guard it,
// then takes them. The zone key of the batch is always taken; extra adds keys
// derived from the batch as read.
func lockBatch(
	ctx context.Context,
	uowFactory UoWFactory,
	locker *SlotLocker,
	batchID kernel.UUID,
	extra func(b *batch.Batch) []string,
) (*batch.Batch, func(), error) {
	b, err := uowFactory.Create().BatchRepository().Get(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}

	keys := []string{ZoneKey(b.Slot(), b.ZoneID())}
	if extra != nil {
		keys = append(keys, extra(b)...)
	}
	return b, locker.Lock(keys...), nil
}

// courierKeys locks the courier of b, if it has one.
func courierKeys(b *batch.Batch) []string {
	if c := b.Courier(); c != nil {
		return []string{CourierKey(*c)}
	}
	return nil
}

// sameCourier reports whether the batch still has the courier seen before locking.
func sameCourier(before, now *batch.Batch) bool {
	a, b := before.Courier(), now.Courier()
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
