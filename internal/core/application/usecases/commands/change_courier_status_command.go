package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeCourierStatusCommandIsNotConstructed = errors.New(
	"ChangeCourierStatusCommand must be created via NewChangeCourierStatusCommand constructor",
)

// ChangeCourierStatusCommand toggles a courier between Available and OffShift.
// OnRun is entered and left only by starting and completing a batch.
type ChangeCourierStatusCommand struct {
	courierID kernel.UUID
	status    courier.Status

	guard guard.ConstructorGuard
}

func NewChangeCourierStatusCommand(courierID kernel.UUID, status courier.Status) (ChangeCourierStatusCommand, error) {
	if err := errors.Join(courierID.Validate(), status.Validate()); err != nil {
		return ChangeCourierStatusCommand{}, err
	}

	return ChangeCourierStatusCommand{
		courierID: courierID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeCourierStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeCourierStatusCommandIsNotConstructed)
}

func (c ChangeCourierStatusCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c ChangeCourierStatusCommand) Status() courier.Status {
	return c.status
}
