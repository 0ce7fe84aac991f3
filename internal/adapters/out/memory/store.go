// Package memory is an in-process implementation of the repositories and the
// Unit of Work. Writes made inside a unit of work are staged and become visible
// to others only on Commit, so it behaves like the Postgres adapter for callers
// that serialize conflicting work themselves.
//
// Aggregates are stored as plain records and rebuilt through the domain Restore
// constructors on every read, so callers never share mutable state with the store.
package memory

import (
	"sync"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/ports"
)

// Store holds committed state shared by every unit of work it creates.
type Store struct {
	mu       sync.RWMutex
	zones    map[zone.ID]zoneRecord
	couriers map[kernel.UUID]courierRecord
	batches  map[kernel.UUID]batchRecord
	orders   map[kernel.UUID]orderRecord
	seq      int64
}

func NewStore() *Store {
	return &Store{
		zones:    make(map[zone.ID]zoneRecord),
		couriers: make(map[kernel.UUID]courierRecord),
		batches:  make(map[kernel.UUID]batchRecord),
		orders:   make(map[kernel.UUID]orderRecord),
	}
}

// Create implements ports.UnitOfWorkFactory.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// apply writes a staged change set. Batch and order writes are checked against
// the courier/slot rule before anything is written.
func (s *Store) apply(c *changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCourierSlots(c); err != nil {
		return err
	}

	for id, r := range c.zones {
		s.zones[id] = r
	}
	for id, r := range c.couriers {
		s.couriers[id] = r
	}
	for id, r := range c.batches {
		s.batches[id] = r
	}
	for id := range c.deletedBatches {
		delete(s.batches, id)
	}
	for id, r := range c.orders {
		s.orders[id] = r
	}
	return nil
}

// checkCourierSlots mirrors the partial unique index of the Postgres schema:
// a courier holds at most one non-Completed batch per slot. Callers must hold s.mu.
func (s *Store) checkCourierSlots(c *changes) error {
	type key struct {
		courier kernel.UUID
		slot    kernel.Slot
	}

	merged := make(map[kernel.UUID]batchRecord, len(s.batches)+len(c.batches))
	for id, r := range s.batches {
		merged[id] = r
	}
	for id, r := range c.batches {
		merged[id] = r
	}
	for id := range c.deletedBatches {
		delete(merged, id)
	}

	holders := make(map[key]kernel.UUID, len(merged))
	for id, r := range merged {
		if r.courierID == nil || r.status == batch.Completed {
			continue
		}
		k := key{courier: *r.courierID, slot: r.slot}
		if other, ok := holders[k]; ok && other != id {
			return batch.ErrCourierDoubleBooked
		}
		holders[k] = id
	}
	return nil
}
