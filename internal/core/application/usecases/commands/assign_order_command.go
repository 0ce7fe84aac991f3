package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand re-runs batch assignment for an order that is already stored
// but not in any batch, for example after its batch was deleted.
type AssignOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignOrderCommand(orderID kernel.UUID) (AssignOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
