package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// Repositories is the read side of a unit of work. Queries never begin a
// transaction, so every call sees the latest committed state.
type Repositories interface {
	ZoneRepository() ports.ZoneRepository
	CourierRepository() ports.CourierRepository
	BatchRepository() ports.BatchRepository
	OrderRepository() ports.OrderRepository
}

// RepositoriesFactory hands out a fresh set of repositories per query.
type RepositoriesFactory interface {
	Create() Repositories
}

func loadRegistry(ctx context.Context, repos Repositories) (*services.ZoneRegistry, error) {
	zones, err := repos.ZoneRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewZoneRegistry(zones)
}
