package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrAssignPendingBatchesCommandIsNotConstructed = errors.New(
	"AssignPendingBatchesCommand must be created via NewAssignPendingBatchesCommand constructor",
)

// AssignPendingBatchesCommand gives every Pending batch a free courier where one exists.
type AssignPendingBatchesCommand struct {
	guard guard.ConstructorGuard
}

func NewAssignPendingBatchesCommand() AssignPendingBatchesCommand {
	return AssignPendingBatchesCommand{guard: guard.NewConstructorGuard()}
}

func (c AssignPendingBatchesCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingBatchesCommandIsNotConstructed)
}
