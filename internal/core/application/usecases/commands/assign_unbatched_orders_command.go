package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrAssignUnbatchedOrdersCommandIsNotConstructed = errors.New(
	"AssignUnbatchedOrdersCommand must be created via NewAssignUnbatchedOrdersCommand constructor",
)

// AssignUnbatchedOrdersCommand sweeps every placed delivery order without a batch
// through assignment again. This is a parameterless command run by the rebatch job.
type AssignUnbatchedOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewAssignUnbatchedOrdersCommand() AssignUnbatchedOrdersCommand {
	return AssignUnbatchedOrdersCommand{guard: guard.NewConstructorGuard()}
}

func (c AssignUnbatchedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignUnbatchedOrdersCommandIsNotConstructed)
}
