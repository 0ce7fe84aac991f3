package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CreateCourierResult describes the courier as it was stored.
type CreateCourierResult struct {
	CourierID kernel.UUID
	Name      string
	Status    courier.Status
}

// CreateCourierCommandHandler registers a rider. New riders start Available,
// so they count toward slot capacity as soon as the transaction commits.
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) (CreateCourierResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateCourierResult{}, err
	}

	rider, err := courier.NewCourier(cmd.CourierID(), cmd.Name())
	if err != nil {
		return CreateCourierResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateCourierResult{}, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err = uow.CourierRepository().Add(ctx, rider); err != nil {
		return CreateCourierResult{}, fmt.Errorf("add courier %s: %w", rider.ID().String(), err)
	}
	if err = uow.Commit(ctx); err != nil {
		return CreateCourierResult{}, err
	}

	return CreateCourierResult{
		CourierID: rider.ID(),
		Name:      rider.Name(),
		Status:    rider.Status(),
	}, nil
}
