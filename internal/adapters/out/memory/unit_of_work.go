package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/ports"
)

var ErrNoTransaction = errors.New("no active transaction")

// changes is the write set of one unit of work.
type changes struct {
	zones          map[zone.ID]zoneRecord
	couriers       map[kernel.UUID]courierRecord
	batches        map[kernel.UUID]batchRecord
	deletedBatches map[kernel.UUID]struct{}
	orders         map[kernel.UUID]orderRecord
}

func newChanges() *changes {
	return &changes{
		zones:          make(map[zone.ID]zoneRecord),
		couriers:       make(map[kernel.UUID]courierRecord),
		batches:        make(map[kernel.UUID]batchRecord),
		deletedBatches: make(map[kernel.UUID]struct{}),
		orders:         make(map[kernel.UUID]orderRecord),
	}
}

// UnitOfWork stages writes between Begin and Commit. Without Begin every write is
// applied at once.
type UnitOfWork struct {
	store   *Store
	pending *changes
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.pending == nil {
		uow.pending = newChanges()
	}
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.pending == nil {
		return ErrNoTransaction
	}

	err := uow.store.apply(uow.pending)
	uow.pending = nil
	return err
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.pending == nil {
		return ErrNoTransaction
	}

	uow.pending = nil
	return nil
}

func (uow *UnitOfWork) ZoneRepository() ports.ZoneRepository {
	return &ZoneRepository{uow: uow}
}

func (uow *UnitOfWork) CourierRepository() ports.CourierRepository {
	return &CourierRepository{uow: uow}
}

func (uow *UnitOfWork) BatchRepository() ports.BatchRepository {
	return &BatchRepository{uow: uow}
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

// write stages fn's changes, or applies them immediately outside a transaction.
func (uow *UnitOfWork) write(fn func(c *changes)) error {
	if uow.pending != nil {
		fn(uow.pending)
		return nil
	}

	c := newChanges()
	fn(c)
	return uow.store.apply(c)
}

// view runs fn with the committed state under a read lock and the staged write
// set, which may be empty.
func (uow *UnitOfWork) view(fn func(s *Store, c *changes)) {
	uow.store.mu.RLock()
	defer uow.store.mu.RUnlock()

	c := uow.pending
	if c == nil {
		c = newChanges()
	}
	fn(uow.store, c)
}
