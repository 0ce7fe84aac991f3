package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand attaches a chosen courier to a batch. This is the operator
// path; AssignPendingBatchesCommand is the automatic one.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(batchID, courierID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, batch.ErrCourierDoubleBooked) {
//	    // pick another courier
//	}
type AssignCourierCommand struct {
	batchID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(batchID, courierID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(batchID.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		batchID:   batchID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCourierCommandIsNotConstructed if validation fails.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
