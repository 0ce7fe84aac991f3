package commands

import (
	"context"
)

// ChangeCourierStatusCommandHandler applies a shift change. The courier's key is
// held so the change does not race with a run starting or finishing.
type ChangeCourierStatusCommandHandler struct {
	uowFactory CourierUoWFactory
	locker     *SlotLocker
}

func NewChangeCourierStatusCommandHandler(uowFactory CourierUoWFactory, locker *SlotLocker) ChangeCourierStatusCommandHandler {
	return ChangeCourierStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
	}
}

func (h ChangeCourierStatusCommandHandler) Handle(ctx context.Context, cmd ChangeCourierStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locker.Lock(CourierKey(cmd.CourierID()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = c.ChangeStatus(cmd.Status()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
