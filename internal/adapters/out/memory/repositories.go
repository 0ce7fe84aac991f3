package memory

import (
	"cmp"
	"context"
	"slices"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

type ZoneRepository struct {
	uow *UnitOfWork
}

func (r *ZoneRepository) Save(_ context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	record := zoneFromDomain(aggregate)
	return r.uow.write(func(c *changes) { c.zones[record.id] = record })
}

func (r *ZoneRepository) GetAll(_ context.Context) ([]*zone.Zone, error) {
	var records []zoneRecord
	r.uow.view(func(s *Store, c *changes) {
		merged := make(map[zone.ID]zoneRecord, len(s.zones)+len(c.zones))
		for id, rec := range s.zones {
			merged[id] = rec
		}
		for id, rec := range c.zones {
			merged[id] = rec
		}
		for _, rec := range merged {
			records = append(records, rec)
		}
	})
	slices.SortFunc(records, func(a, b zoneRecord) int { return cmp.Compare(a.id, b.id) })

	zones := make([]*zone.Zone, 0, len(records))
	for _, rec := range records {
		z, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

type CourierRepository struct {
	uow *UnitOfWork
}

func (r *CourierRepository) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(aggregate.ID()); ok {
		return errs.NewValueIsInvalidError("courier id is already taken")
	}

	record := courierFromDomain(aggregate)
	return r.uow.write(func(c *changes) { c.couriers[record.id] = record })
}

func (r *CourierRepository) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(aggregate.ID()); !ok {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	record := courierFromDomain(aggregate)
	return r.uow.write(func(c *changes) { c.couriers[record.id] = record })
}

func (r *CourierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return rec.toDomain()
}

func (r *CourierRepository) GetAll(_ context.Context) ([]*courier.Courier, error) {
	var records []courierRecord
	r.uow.view(func(s *Store, c *changes) {
		for id, rec := range s.couriers {
			if staged, ok := c.couriers[id]; ok {
				rec = staged
			}
			records = append(records, rec)
		}
		for id, rec := range c.couriers {
			if _, ok := s.couriers[id]; !ok {
				records = append(records, rec)
			}
		}
	})
	slices.SortFunc(records, func(a, b courierRecord) int {
		if n := cmp.Compare(a.name, b.name); n != 0 {
			return n
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	couriers := make([]*courier.Courier, 0, len(records))
	for _, rec := range records {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}

func (r *CourierRepository) lookup(id kernel.UUID) (courierRecord, bool) {
	var (
		rec courierRecord
		ok  bool
	)
	r.uow.view(func(s *Store, c *changes) {
		if rec, ok = c.couriers[id]; ok {
			return
		}
		rec, ok = s.couriers[id]
	})
	return rec, ok
}

type BatchRepository struct {
	uow *UnitOfWork
}

func (r *BatchRepository) Add(_ context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(aggregate.ID()); ok {
		return errs.NewValueIsInvalidError("batch id is already taken")
	}

	record := batchFromDomain(aggregate, r.uow.store.nextSeq())
	return r.stage(record)
}

func (r *BatchRepository) Update(_ context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	existing, ok := r.lookup(aggregate.ID())
	if !ok {
		return errs.NewObjectNotFoundError("batch", aggregate.ID().String())
	}

	record := batchFromDomain(aggregate, existing.seq)
	return r.stage(record)
}

func (r *BatchRepository) Delete(_ context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(id); !ok {
		return errs.NewObjectNotFoundError("batch", id.String())
	}

	return r.uow.write(func(c *changes) {
		delete(c.batches, id)
		c.deletedBatches[id] = struct{}{}
	})
}

func (r *BatchRepository) Get(_ context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("batch", id.String())
	}
	return rec.toDomain()
}

func (r *BatchRepository) GetActiveBySlot(_ context.Context, slot kernel.Slot) ([]*batch.Batch, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return r.find(func(rec batchRecord) bool { return rec.slot == slot && rec.status != batch.Completed })
}

func (r *BatchRepository) GetBySlot(_ context.Context, slot kernel.Slot) ([]*batch.Batch, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return r.find(func(rec batchRecord) bool { return rec.slot == slot })
}

func (r *BatchRepository) GetAllPending(_ context.Context) ([]*batch.Batch, error) {
	return r.find(func(rec batchRecord) bool { return rec.status == batch.Pending })
}

// stage checks the courier/slot rule against committed and staged batches before
// writing, so a conflict is reported by the write that causes it.
func (r *BatchRepository) stage(record batchRecord) error {
	var err error
	r.uow.view(func(s *Store, c *changes) {
		probe := newChanges()
		for id, rec := range c.batches {
			probe.batches[id] = rec
		}
		for id := range c.deletedBatches {
			probe.deletedBatches[id] = struct{}{}
		}
		probe.batches[record.id] = record
		err = s.checkCourierSlots(probe)
	})
	if err != nil {
		return err
	}

	return r.uow.write(func(c *changes) {
		delete(c.deletedBatches, record.id)
		c.batches[record.id] = record
	})
}

func (r *BatchRepository) lookup(id kernel.UUID) (batchRecord, bool) {
	var (
		rec batchRecord
		ok  bool
	)
	r.uow.view(func(s *Store, c *changes) {
		if _, deleted := c.deletedBatches[id]; deleted {
			return
		}
		if rec, ok = c.batches[id]; ok {
			return
		}
		rec, ok = s.batches[id]
	})
	return rec, ok
}

func (r *BatchRepository) find(match func(batchRecord) bool) ([]*batch.Batch, error) {
	var records []batchRecord
	r.uow.view(func(s *Store, c *changes) {
		for id, rec := range s.batches {
			if _, shadowed := c.batches[id]; shadowed {
				continue
			}
			if _, deleted := c.deletedBatches[id]; deleted {
				continue
			}
			if match(rec) {
				records = append(records, rec)
			}
		}
		for _, rec := range c.batches {
			if match(rec) {
				records = append(records, rec)
			}
		}
	})
	slices.SortFunc(records, func(a, b batchRecord) int { return cmp.Compare(a.seq, b.seq) })

	batches := make([]*batch.Batch, 0, len(records))
	for _, rec := range records {
		b, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(aggregate.ID()); ok {
		return errs.NewValueIsInvalidError("order id is already taken")
	}

	record := orderFromDomain(aggregate, r.uow.store.nextSeq())
	return r.uow.write(func(c *changes) { c.orders[record.id] = record })
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	existing, ok := r.lookup(aggregate.ID())
	if !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	record := orderFromDomain(aggregate, existing.seq)
	return r.uow.write(func(c *changes) { c.orders[record.id] = record })
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return rec.toDomain()
}

func (r *OrderRepository) GetBySlot(_ context.Context, slot kernel.Slot) ([]*order.Order, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return r.find(func(rec orderRecord) bool { return rec.slot == slot })
}

func (r *OrderRepository) GetByBatch(_ context.Context, batchID kernel.UUID) ([]*order.Order, error) {
	if err := batchID.Validate(); err != nil {
		return nil, err
	}
	return r.find(func(rec orderRecord) bool { return rec.batchID != nil && *rec.batchID == batchID })
}

func (r *OrderRepository) GetUnbatched(_ context.Context) ([]*order.Order, error) {
	return r.find(func(rec orderRecord) bool { return rec.status == order.Placed && rec.zoneID != nil })
}

func (r *OrderRepository) lookup(id kernel.UUID) (orderRecord, bool) {
	var (
		rec orderRecord
		ok  bool
	)
	r.uow.view(func(s *Store, c *changes) {
		if rec, ok = c.orders[id]; ok {
			return
		}
		rec, ok = s.orders[id]
	})
	return rec, ok
}

func (r *OrderRepository) find(match func(orderRecord) bool) ([]*order.Order, error) {
	var records []orderRecord
	r.uow.view(func(s *Store, c *changes) {
		for id, rec := range s.orders {
			if _, shadowed := c.orders[id]; shadowed {
				continue
			}
			if match(rec) {
				records = append(records, rec)
			}
		}
		for _, rec := range c.orders {
			if match(rec) {
				records = append(records, rec)
			}
		}
	})
	slices.SortFunc(records, func(a, b orderRecord) int { return cmp.Compare(a.seq, b.seq) })

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
