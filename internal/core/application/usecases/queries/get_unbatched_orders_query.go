package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetUnbatchedOrdersQueryIsNotConstructed = errors.New(
		"GetUnbatchedOrdersQuery must be created via NewGetUnbatchedOrdersQuery constructor",
	)
)

// GetUnbatchedOrdersQuery retrieves the delivery orders that wait for a run,
// typically the members of a deleted batch or orders that were deferred by AssignOrder.
//
// Example:
//
//	query := NewGetUnbatchedOrdersQuery()
//	handler := NewGetUnbatchedOrdersQueryHandler(repos)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unbatched orders: %w", err)
//	}
//
//	fmt.Printf("Found %d orders awaiting a batch\n", len(orders))
type GetUnbatchedOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetUnbatchedOrdersQuery() GetUnbatchedOrdersQuery {
	return GetUnbatchedOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetUnbatchedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnbatchedOrdersQueryIsNotConstructed)
}

// GetUnbatchedOrdersQueryResponse is one waiting order.
type GetUnbatchedOrdersQueryResponse struct {
	ID     kernel.UUID
	ZoneID zone.ID
	Slot   kernel.Slot
}
