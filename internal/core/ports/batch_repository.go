package ports

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
)

type BatchRepository interface {
	// Add stores a new batch. A second active batch for the same courier and slot
	// fails with batch.ErrCourierDoubleBooked.
	Add(ctx context.Context, aggregate *batch.Batch) error

	// Update stores the batch state. It fails with batch.ErrCourierDoubleBooked like Add.
	Update(ctx context.Context, aggregate *batch.Batch) error

	Delete(ctx context.Context, id kernel.UUID) error

	// Get returns errs.ErrObjectNotFound when no batch has the id.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetActiveBySlot returns the non-Completed batches of slot in creation order.
	// Inside a transaction the returned rows stay locked until it ends.
	GetActiveBySlot(ctx context.Context, slot kernel.Slot) ([]*batch.Batch, error)

	// GetBySlot returns every batch of slot, completed ones included, in creation order.
	GetBySlot(ctx context.Context, slot kernel.Slot) ([]*batch.Batch, error)

	// GetAllPending returns the batches still waiting for a courier in creation order.
	GetAllPending(ctx context.Context) ([]*batch.Batch, error)
}
