package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// PlaceOrder handles POST /api/v1/orders.
//
// The zone comes from zoneId, or is resolved from street when zoneId is absent.
// An order with neither is a pickup and is refused. The response is 201 when the
// order was stored and batched, and 200 when it was rejected for capacity or
// deferred to SuggestedSlot; in both of those cases nothing was stored.
func (s *Server) PlaceOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx := c.Request().Context()

	orderID := kernel.NewUUID()
	if body.ID != nil {
		id, err := kernel.UUIDFromBytes(body.ID[:])
		if err != nil {
			return s.fail(c, err)
		}
		orderID = id
	}

	slot, err := kernel.ParseSlot(body.Slot)
	if err != nil {
		return s.fail(c, err)
	}

	zoneID, err := s.orderZone(c, body)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(orderID, zoneID, slot)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.PlaceOrder.Handle(ctx, cmd)
	if err != nil {
		return s.fail(c, err)
	}

	code := http.StatusOK
	if result.Admitted && result.Outcome != services.Deferred {
		code = http.StatusCreated
	}

	return c.JSON(code, PlaceOrderResult{
		Assignment: toAssignment(result.AssignmentResult),
		Admitted:   result.Admitted,
		Capacity:   toCapacity(result.Capacity),
	})
}

func (s *Server) orderZone(c echo.Context, body NewOrder) (*zone.ID, error) {
	switch {
	case body.ZoneID != nil:
		id, err := zone.NewID(*body.ZoneID)
		if err != nil {
			return nil, err
		}
		return &id, nil
	case body.Street != nil:
		query, err := queries.NewResolveZoneQuery(*body.Street)
		if err != nil {
			return nil, err
		}
		resolved, err := s.h.ResolveZone.Handle(c.Request().Context(), query)
		if err != nil {
			return nil, err
		}
		return &resolved.ZoneID, nil
	default:
		return nil, nil
	}
}

// GetUnbatchedOrders handles GET /api/v1/orders/unbatched.
func (s *Server) GetUnbatchedOrders(c echo.Context) error {
	orders, err := s.h.GetUnbatchedOrders.Handle(c.Request().Context(), queries.NewGetUnbatchedOrdersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Order, 0, len(orders))
	for _, o := range orders {
		response = append(response, Order{
			ID:     o.ID.Bytes(),
			ZoneID: o.ZoneID.String(),
			Slot:   o.Slot.String(),
		})
	}

	return c.JSON(http.StatusOK, response)
}

// AssignUnbatchedOrders handles POST /api/v1/orders/assign-unbatched.
func (s *Server) AssignUnbatchedOrders(c echo.Context) error {
	result, err := s.h.AssignUnbatchedOrders.Handle(c.Request().Context(), commands.NewAssignUnbatchedOrdersCommand())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, SweepResult{
		Batched:  result.Batched,
		Deferred: result.Deferred,
		Failed:   result.Failed,
	})
}

// AssignOrder handles POST /api/v1/orders/{orderId}/assign.
func (s *Server) AssignOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignOrderCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.AssignOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAssignment(result))
}

// MarkOrderDelivered handles POST /api/v1/orders/{orderId}/delivered.
func (s *Server) MarkOrderDelivered(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewMarkOrderDeliveredCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.MarkOrderDelivered.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
