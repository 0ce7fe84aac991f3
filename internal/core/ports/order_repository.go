package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

type OrderRepository interface {
	Add(ctx context.Context, aggregate *order.Order) error

	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySlot returns every order placed for slot in placement order.
	GetBySlot(ctx context.Context, slot kernel.Slot) ([]*order.Order, error)

	// GetByBatch returns the orders referencing batchID.
	GetByBatch(ctx context.Context, batchID kernel.UUID) ([]*order.Order, error)

	// GetUnbatched returns the Placed delivery orders in placement order.
	GetUnbatched(ctx context.Context) ([]*order.Order, error)
}
