package postgres

import (
	"dispatch/internal/adapters/out/postgres/batchrepo"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/zonerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&zonerepo.ZoneDTO{},
		&courierrepo.CourierDTO{},
		&batchrepo.BatchDTO{},
		&orderrepo.OrderDTO{},
	)
}
