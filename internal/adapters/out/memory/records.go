package memory

import (
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
)

type zoneRecord struct {
	id             zone.ID
	name           string
	priority       zone.Priority
	streets        []string
	neighbors      []zone.ID
	preferredSlots []kernel.Slot
}

func zoneFromDomain(z *zone.Zone) zoneRecord {
	return zoneRecord{
		id:             z.ID(),
		name:           z.Name(),
		priority:       z.Priority(),
		streets:        z.Streets(),
		neighbors:      z.Neighbors(),
		preferredSlots: z.PreferredSlots(),
	}
}

func (r zoneRecord) toDomain() (*zone.Zone, error) {
	return zone.NewZone(r.id, r.name, r.priority, r.streets, r.neighbors, r.preferredSlots)
}

type courierRecord struct {
	id     kernel.UUID
	name   string
	status courier.Status
}

func courierFromDomain(c *courier.Courier) courierRecord {
	return courierRecord{id: c.ID(), name: c.Name(), status: c.Status()}
}

func (r courierRecord) toDomain() (*courier.Courier, error) {
	return courier.RestoreCourier(r.id, r.name, r.status)
}

type batchRecord struct {
	id        kernel.UUID
	zoneID    zone.ID
	slot      kernel.Slot
	courierID *kernel.UUID
	orderIDs  []kernel.UUID
	status    batch.Status
	seq       int64
}

func batchFromDomain(b *batch.Batch, seq int64) batchRecord {
	return batchRecord{
		id:        b.ID(),
		zoneID:    b.ZoneID(),
		slot:      b.Slot(),
		courierID: b.Courier(),
		orderIDs:  b.OrderIDs(),
		status:    b.Status(),
		seq:       seq,
	}
}

func (r batchRecord) toDomain() (*batch.Batch, error) {
	return batch.RestoreBatch(r.id, r.zoneID, r.slot, r.courierID, r.orderIDs, r.status)
}

type orderRecord struct {
	id      kernel.UUID
	zoneID  *zone.ID
	slot    kernel.Slot
	batchID *kernel.UUID
	status  order.Status
	seq     int64
}

func orderFromDomain(o *order.Order, seq int64) orderRecord {
	var zoneID *zone.ID
	if id, ok := o.ZoneID(); ok {
		zoneID = &id
	}
	return orderRecord{
		id:      o.ID(),
		zoneID:  zoneID,
		slot:    o.Slot(),
		batchID: o.Batch(),
		status:  o.Status(),
		seq:     seq,
	}
}

func (r orderRecord) toDomain() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.zoneID, r.slot, r.batchID, r.status)
}
