// Package batchrepo persists batches with GORM.
package batchrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	uniqueViolation  = "23505"
	courierSlotIndex = "idx_batches_courier_slot"
)

var mutableColumns = []string{"courier_id", "order_ids", "status"}

type GormBatchRepository struct {
	db *gorm.DB
}

func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) Add(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return translate(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).Where("id = ?", dto.ID).
		Select(mutableColumns).Updates(&dto)
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("batch", aggregate.ID().String())
	}

	return nil
}

func (r *GormBatchRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&BatchDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("batch", id.String())
	}

	return nil
}

func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveBySlot locks the rows it returns with FOR UPDATE.
func (r *GormBatchRepository) GetActiveBySlot(ctx context.Context, slot kernel.Slot) ([]*batch.Batch, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	return find(db, "slot = ? AND status <> ?", slot.String(), int(batch.Completed))
}

func (r *GormBatchRepository) GetBySlot(ctx context.Context, slot kernel.Slot) ([]*batch.Batch, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return find(r.db.WithContext(ctx), "slot = ?", slot.String())
}

func (r *GormBatchRepository) GetAllPending(ctx context.Context) ([]*batch.Batch, error) {
	return find(r.db.WithContext(ctx), "status = ?", int(batch.Pending))
}

func find(db *gorm.DB, query string, args ...any) ([]*batch.Batch, error) {
	var dtos []BatchDTO
	if err := db.Where(query, args...).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	batches := make([]*batch.Batch, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, nil
}

// translate maps a violation of the courier/slot unique index to the domain error.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == courierSlotIndex {
		return batch.ErrCourierDoubleBooked
	}
	return err
}
