package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrStartBatchCommandIsNotConstructed = errors.New(
		"StartBatchCommand must be created via NewStartBatchCommand constructor",
	)
	ErrCompleteBatchCommandIsNotConstructed = errors.New(
		"CompleteBatchCommand must be created via NewCompleteBatchCommand constructor",
	)
	ErrDeleteBatchCommandIsNotConstructed = errors.New(
		"DeleteBatchCommand must be created via NewDeleteBatchCommand constructor",
	)
	ErrRemoveOrderFromBatchCommandIsNotConstructed = errors.New(
		"RemoveOrderFromBatchCommand must be created via NewRemoveOrderFromBatchCommand constructor",
	)
	ErrMarkOrderDeliveredCommandIsNotConstructed = errors.New(
		"MarkOrderDeliveredCommand must be created via NewMarkOrderDeliveredCommand constructor",
	)
)

// StartBatchCommand sends an Assigned batch out with its courier.
type StartBatchCommand struct {
	batchID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewStartBatchCommand(batchID kernel.UUID) (StartBatchCommand, error) {
	if err := batchID.Validate(); err != nil {
		return StartBatchCommand{}, err
	}
	return StartBatchCommand{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartBatchCommand) Validate() error {
	return c.guard.Validate(ErrStartBatchCommandIsNotConstructed)
}

func (c StartBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

// CompleteBatchCommand closes a run whose orders were all delivered.
type CompleteBatchCommand struct {
	batchID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewCompleteBatchCommand(batchID kernel.UUID) (CompleteBatchCommand, error) {
	if err := batchID.Validate(); err != nil {
		return CompleteBatchCommand{}, err
	}
	return CompleteBatchCommand{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteBatchCommand) Validate() error {
	return c.guard.Validate(ErrCompleteBatchCommandIsNotConstructed)
}

func (c CompleteBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

// DeleteBatchCommand is the operator cancel. Members go back to unbatched.
type DeleteBatchCommand struct {
	batchID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewDeleteBatchCommand(batchID kernel.UUID) (DeleteBatchCommand, error) {
	if err := batchID.Validate(); err != nil {
		return DeleteBatchCommand{}, err
	}
	return DeleteBatchCommand{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteBatchCommand) Validate() error {
	return c.guard.Validate(ErrDeleteBatchCommandIsNotConstructed)
}

func (c DeleteBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

type RemoveOrderFromBatchCommand struct {
	batchID kernel.UUID
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewRemoveOrderFromBatchCommand(batchID, orderID kernel.UUID) (RemoveOrderFromBatchCommand, error) {
	if err := errors.Join(batchID.Validate(), orderID.Validate()); err != nil {
		return RemoveOrderFromBatchCommand{}, err
	}
	return RemoveOrderFromBatchCommand{batchID: batchID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveOrderFromBatchCommand) Validate() error {
	return c.guard.Validate(ErrRemoveOrderFromBatchCommandIsNotConstructed)
}

func (c RemoveOrderFromBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c RemoveOrderFromBatchCommand) OrderID() kernel.UUID {
	return c.orderID
}

// MarkOrderDeliveredCommand records the hand-over of one order of a running batch.
type MarkOrderDeliveredCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewMarkOrderDeliveredCommand(orderID kernel.UUID) (MarkOrderDeliveredCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkOrderDeliveredCommand{}, err
	}
	return MarkOrderDeliveredCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkOrderDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderDeliveredCommandIsNotConstructed)
}

func (c MarkOrderDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}
