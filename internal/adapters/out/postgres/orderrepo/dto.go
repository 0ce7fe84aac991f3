package orderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"

	"github.com/google/uuid"
)

// OrderDTO stores the slot as its label. Seq keeps placement order.
type OrderDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ZoneID  *string    `gorm:"type:varchar(64);index"`
	Slot    string     `gorm:"type:varchar(11);not null;index"`
	BatchID *uuid.UUID `gorm:"type:uuid;index"`
	Status  int        `gorm:"type:smallint;not null;index"`
	Seq     int64      `gorm:"autoIncrement;not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var zoneID *string
	if id, ok := aggregate.ZoneID(); ok {
		s := id.String()
		zoneID = &s
	}

	var batchID *uuid.UUID
	if id := aggregate.Batch(); id != nil {
		raw := id.Bytes()
		batchID = &raw
	}

	return OrderDTO{
		ID:      aggregate.ID().Bytes(),
		ZoneID:  zoneID,
		Slot:    aggregate.Slot().String(),
		BatchID: batchID,
		Status:  int(aggregate.Status()),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	slot, err := kernel.ParseSlot(dto.Slot)
	if err != nil {
		return nil, err
	}

	var zoneID *zone.ID
	if dto.ZoneID != nil {
		z := zone.ID(*dto.ZoneID)
		zoneID = &z
	}

	var batchID *kernel.UUID
	if dto.BatchID != nil {
		bID, batchErr := kernel.UUIDFromBytes((*dto.BatchID)[:])
		if batchErr != nil {
			return nil, batchErr
		}
		batchID = &bID
	}

	return order.RestoreOrder(id, zoneID, slot, batchID, order.Status(dto.Status))
}
