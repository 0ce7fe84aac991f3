package zonerepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"github.com/lib/pq"
)

// ZoneDTO keeps streets, neighbors and preferred slot labels in text[] columns.
type ZoneDTO struct {
	ID             string         `gorm:"type:varchar(64);primaryKey"`
	Name           string         `gorm:"type:varchar(255);not null"`
	Priority       int            `gorm:"type:smallint;not null"`
	Streets        pq.StringArray `gorm:"type:text[];not null"`
	Neighbors      pq.StringArray `gorm:"type:text[];not null"`
	PreferredSlots pq.StringArray `gorm:"type:text[];not null"`
}

func (ZoneDTO) TableName() string {
	return "zones"
}

func fromDomain(aggregate *zone.Zone) ZoneDTO {
	neighbors := make(pq.StringArray, 0, len(aggregate.Neighbors()))
	for _, n := range aggregate.Neighbors() {
		neighbors = append(neighbors, n.String())
	}

	preferred := make(pq.StringArray, 0, len(aggregate.PreferredSlots()))
	for _, s := range aggregate.PreferredSlots() {
		preferred = append(preferred, s.String())
	}

	return ZoneDTO{
		ID:             aggregate.ID().String(),
		Name:           aggregate.Name(),
		Priority:       int(aggregate.Priority()),
		Streets:        pq.StringArray(aggregate.Streets()),
		Neighbors:      neighbors,
		PreferredSlots: preferred,
	}
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	neighbors := make([]zone.ID, 0, len(dto.Neighbors))
	for _, n := range dto.Neighbors {
		neighbors = append(neighbors, zone.ID(n))
	}

	preferred := make([]kernel.Slot, 0, len(dto.PreferredSlots))
	for _, label := range dto.PreferredSlots {
		s, err := kernel.ParseSlot(label)
		if err != nil {
			return nil, err
		}
		preferred = append(preferred, s)
	}

	return zone.NewZone(zone.ID(dto.ID), dto.Name, zone.Priority(dto.Priority), dto.Streets, neighbors, preferred)
}
