package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Repositories obtained
// after Begin take part in the transaction; repositories obtained without it
// read committed state directly.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	ZoneRepository() ZoneRepository

	CourierRepository() CourierRepository

	BatchRepository() BatchRepository

	OrderRepository() OrderRepository
}
