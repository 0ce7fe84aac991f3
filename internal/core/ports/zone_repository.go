package ports

import (
	"context"

	"dispatch/internal/core/domain/model/zone"
)

// ZoneRepository stores the operator-maintained zone table.
type ZoneRepository interface {
	// Save inserts the zone or replaces the stored one with the same id.
	Save(ctx context.Context, aggregate *zone.Zone) error

	// GetAll returns every zone ordered by id.
	GetAll(ctx context.Context) ([]*zone.Zone, error)
}
