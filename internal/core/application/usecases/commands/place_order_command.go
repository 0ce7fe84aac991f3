package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand admits a new order into a slot and places it into a run.
// A nil zone marks a pickup order, which the handler rejects with
// services.ErrZoneUnresolved.
//
// Example:
//
//	oldTown := zone.ID("old-town")
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), &oldTown, kernel.MustParseSlot("20:00-20:15"))
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct {
	orderID kernel.UUID
	zoneID  *zone.ID
	slot    kernel.Slot

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(orderID kernel.UUID, zoneID *zone.ID, slot kernel.Slot) (PlaceOrderCommand, error) {
	command := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setZoneID(zoneID),
		command.setSlot(slot),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return command, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ZoneID returns the resolved zone, false for a pickup order.
func (c PlaceOrderCommand) ZoneID() (zone.ID, bool) {
	if c.zoneID == nil {
		return "", false
	}
	return *c.zoneID, true
}

func (c PlaceOrderCommand) Slot() kernel.Slot {
	return c.slot
}

func (c *PlaceOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *PlaceOrderCommand) setZoneID(zoneID *zone.ID) error {
	if zoneID == nil {
		return nil
	}
	id, err := zone.NewID(zoneID.String())
	if err != nil {
		return err
	}

	c.zoneID = &id
	return nil
}

func (c *PlaceOrderCommand) setSlot(slot kernel.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	c.slot = slot
	return nil
}
