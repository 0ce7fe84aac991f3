// Package orderrepo persists orders with GORM.
package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// mutableColumns are written by Update; id and seq never change.
var mutableColumns = []string{"zone_id", "slot", "batch_id", "status"}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).
		Select(mutableColumns).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetBySlot(ctx context.Context, slot kernel.Slot) ([]*order.Order, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return r.find(ctx, "slot = ?", slot.String())
}

func (r *GormOrderRepository) GetByBatch(ctx context.Context, batchID kernel.UUID) ([]*order.Order, error) {
	if err := batchID.Validate(); err != nil {
		return nil, err
	}
	return r.find(ctx, "batch_id = ?", batchID.Bytes())
}

func (r *GormOrderRepository) GetUnbatched(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, "status = ? AND zone_id IS NOT NULL", int(order.Placed))
}

func (r *GormOrderRepository) find(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Where(query, args...).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
