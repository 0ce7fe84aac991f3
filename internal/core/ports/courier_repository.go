package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

type CourierRepository interface {
	Add(ctx context.Context, aggregate *courier.Courier) error

	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get returns errs.ErrObjectNotFound when no courier has the id.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAll returns every courier regardless of status, in a stable order.
	GetAll(ctx context.Context) ([]*courier.Courier, error)
}
