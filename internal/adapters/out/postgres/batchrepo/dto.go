package batchrepo

import (
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BatchDTO keeps member ids in join order in a text[] column. The partial unique
// index holds a courier to one active batch per slot across processes; 4 is
// batch.Completed.
type BatchDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ZoneID    string         `gorm:"type:varchar(64);not null;index"`
	Slot      string         `gorm:"type:varchar(11);not null;index;uniqueIndex:idx_batches_courier_slot,where:status <> 4"`
	CourierID *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_batches_courier_slot,where:status <> 4"`
	OrderIDs  pq.StringArray `gorm:"type:text[];not null"`
	Status    int            `gorm:"type:smallint;not null;index"`
	Seq       int64          `gorm:"autoIncrement;not null"`
}

func (BatchDTO) TableName() string {
	return "batches"
}

func fromDomain(aggregate *batch.Batch) BatchDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	orderIDs := make(pq.StringArray, 0, aggregate.Len())
	for _, id := range aggregate.OrderIDs() {
		orderIDs = append(orderIDs, id.String())
	}

	return BatchDTO{
		ID:        aggregate.ID().Bytes(),
		ZoneID:    aggregate.ZoneID().String(),
		Slot:      aggregate.Slot().String(),
		CourierID: courierID,
		OrderIDs:  orderIDs,
		Status:    int(aggregate.Status()),
	}
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	slot, err := kernel.ParseSlot(dto.Slot)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	orderIDs := make([]kernel.UUID, 0, len(dto.OrderIDs))
	for _, raw := range dto.OrderIDs {
		oID, orderErr := kernel.UUIDFromString(raw)
		if orderErr != nil {
			return nil, orderErr
		}
		orderIDs = append(orderIDs, oID)
	}

	return batch.RestoreBatch(id, zone.ID(dto.ZoneID), slot, courierID, orderIDs, batch.Status(dto.Status))
}
